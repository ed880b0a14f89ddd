package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"veritas/internal/verification/models"
	"veritas/internal/verification/ports/mocks"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

func newMockedService(t *testing.T) (*Service, *mocks.MockEntityStore, *mocks.MockRunStore, *mocks.MockRequirementSource) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	entityStore := mocks.NewMockEntityStore(ctrl)
	runStore := mocks.NewMockRunStore(ctrl)
	reqSource := mocks.NewMockRequirementSource(ctrl)

	svc, err := New(entityStore, runStore, reqSource, &resolvingJudge{})
	require.NoError(t, err)
	return svc, entityStore, runStore, reqSource
}

func TestRunFailsWhenEntitiesUnavailable(t *testing.T) {
	svc, entityStore, _, reqSource := newMockedService(t)
	companyID := id.CompanyID(uuid.New())

	set := models.DefaultRequirementSet()
	reqSource.EXPECT().RequirementSet(gomock.Any(), companyID).Return(&set, nil)
	entityStore.EXPECT().Entities(gomock.Any(), companyID, models.EntityKindDirector).
		Return(nil, errors.New("connection refused"))

	_, err := svc.Run(context.Background(), companyID, models.EntityKindDirector, false)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestRunFailsWhenRequirementsUnavailable(t *testing.T) {
	svc, _, _, reqSource := newMockedService(t)
	companyID := id.CompanyID(uuid.New())

	reqSource.EXPECT().RequirementSet(gomock.Any(), companyID).
		Return(nil, errors.New("connection refused"))

	_, err := svc.Run(context.Background(), companyID, models.EntityKindShareholder, false)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestRunFailsWhenOwnershipGraphUnavailable(t *testing.T) {
	svc, entityStore, _, reqSource := newMockedService(t)
	companyID := id.CompanyID(uuid.New())

	set := models.DefaultRequirementSet()
	reqSource.EXPECT().RequirementSet(gomock.Any(), companyID).Return(&set, nil)
	entityStore.EXPECT().Entities(gomock.Any(), companyID, models.EntityKindShareholder).
		Return([]models.Entity{}, nil)
	entityStore.EXPECT().OwnershipGraph(gomock.Any(), companyID).
		Return(nil, errors.New("connection refused"))

	_, err := svc.Run(context.Background(), companyID, models.EntityKindShareholder, false)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestSummarySaveFailureDoesNotFailRun(t *testing.T) {
	svc, entityStore, runStore, reqSource := newMockedService(t)
	companyID := id.CompanyID(uuid.New())

	set := models.DefaultRequirementSet()
	reqSource.EXPECT().RequirementSet(gomock.Any(), companyID).Return(&set, nil)
	entityStore.EXPECT().Entities(gomock.Any(), companyID, models.EntityKindDirector).
		Return([]models.Entity{}, nil).Times(1)
	entityStore.EXPECT().Entities(gomock.Any(), companyID, gomock.Any()).
		Return([]models.Entity{}, nil).AnyTimes()
	entityStore.EXPECT().OwnershipGraph(gomock.Any(), companyID).
		Return(models.NewOwnershipGraph(), nil)
	runStore.EXPECT().SaveSummary(gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	summary, err := svc.Run(context.Background(), companyID, models.EntityKindDirector, false)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total())
}
