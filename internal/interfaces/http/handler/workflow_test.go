package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/factoryerp/backend/internal/application/workflow"
	"github.com/factoryerp/backend/internal/domain/shared"
)

type mockWorkflowService struct {
	mock.Mock
}

func (m *mockWorkflowService) Create(ctx context.Context, input workflow.CreateWorkflowInput) (*workflow.WorkflowDTO, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.WorkflowDTO), args.Error(1)
}

func (m *mockWorkflowService) Update(ctx context.Context, id int, input workflow.UpdateWorkflowInput) (*workflow.WorkflowDTO, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.WorkflowDTO), args.Error(1)
}

func (m *mockWorkflowService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWorkflowService) Get(ctx context.Context, id int) (*workflow.WorkflowDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.WorkflowDTO), args.Error(1)
}

func (m *mockWorkflowService) List(ctx context.Context) ([]workflow.WorkflowDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.WorkflowDTO), args.Error(1)
}

func (m *mockWorkflowService) Statuses(ctx context.Context) ([]workflow.StatusDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.StatusDTO), args.Error(1)
}

func newWorkflowRouter(svc WorkflowService) *gin.Engine {
	h := NewWorkflowHandler(svc)
	router := gin.New()
	group := router.Group("/api/v1")
	{
		group.POST("/workflows", h.Create)
		group.GET("/workflows", h.List)
		group.GET("/workflows/:id", h.Get)
		group.PUT("/workflows/:id", h.Update)
		group.DELETE("/workflows/:id", h.Delete)
		group.GET("/order-statuses", h.ListStatuses)
	}
	return router
}

func TestCreateWorkflowEndpoint(t *testing.T) {
	svc := new(mockWorkflowService)
	svc.On("Create", mock.Anything, workflow.CreateWorkflowInput{
		Name:           "Standard",
		StatusSequence: []int{1, 2, 3},
	}).Return(&workflow.WorkflowDTO{ID: 1, Name: "Standard", StatusSequence: []int{1, 2, 3}}, nil)

	router := newWorkflowRouter(svc)
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"name":"Standard","status_sequence":[1,2,3]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Standard"`)
}

func TestCreateWorkflowRejectsEmptySequence(t *testing.T) {
	svc := new(mockWorkflowService)

	router := newWorkflowRouter(svc)
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"name":"Standard","status_sequence":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetWorkflowNotFound(t *testing.T) {
	svc := new(mockWorkflowService)
	svc.On("Get", mock.Anything, 42).Return(nil, shared.ErrNotFound)

	router := newWorkflowRouter(svc)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workflows/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestDeleteWorkflowEndpoint(t *testing.T) {
	svc := new(mockWorkflowService)
	svc.On("Delete", mock.Anything, 7).Return(nil)

	router := newWorkflowRouter(svc)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/workflows/7", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestListStatusesEndpoint(t *testing.T) {
	svc := new(mockWorkflowService)
	svc.On("Statuses", mock.Anything).Return([]workflow.StatusDTO{
		{ID: 1, Name: "Pending"},
		{ID: 2, Name: "Purchasing"},
	}, nil)

	router := newWorkflowRouter(svc)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/order-statuses", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Purchasing")
}
