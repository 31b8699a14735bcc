package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/services"
	"github.com/shopmate/shopmate/pkg/stages"
)

type APIHandlers struct {
	projectService *services.Project
	taskService    *services.Task
	staffService   *services.Staff
	validator      *validator.Validate
}

func NewAPIHandlers(
	projectService *services.Project,
	taskService *services.Task,
	staffService *services.Staff,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		projectService: projectService,
		taskService:    taskService,
		staffService:   staffService,
		validator:      validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.projectService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "ShopMate API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "ShopMate API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) CreateProject(c fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	createReq := services.CreateProjectRequest{
		OrganizationID: organizationID(c),
		CustomerID:     req.CustomerID,
		Name:           req.Name,
		Description:    req.Description,
		AssignedTeam:   req.AssignedTeam,
	}

	if req.EstimatedStart != nil {
		createReq.EstimatedStart = *req.EstimatedStart
	}

	if req.EstimatedEnd != nil {
		createReq.EstimatedEnd = *req.EstimatedEnd
	}

	project, err := h.projectService.CreateProject(c.Context(), createReq)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *APIHandlers) GetProjects(c fiber.Ctx) error {
	req, err := h.parseListProjectsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	projects, err := h.projectService.ListProjects(c.Context(), organizationID(c), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
	})
}

func (h *APIHandlers) parseListProjectsRequest(c fiber.Ctx) (*services.ListProjectsRequest, error) {
	req := &services.ListProjectsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.ProjectStatus(statusStr)
		req.Status = &status
	}

	req.CurrentStage = c.Query("stage")

	return req, nil
}

func (h *APIHandlers) GetProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	project, err := h.projectService.GetProject(c.Context(), organizationID(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(project)
}

func (h *APIHandlers) AdvanceProjectStage(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	var req AdvanceStageRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	result, err := h.projectService.AdvanceStage(c.Context(), organizationID(c), id, stages.ID(req.TargetStage))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": result.Project,
		"tasks":   result.Tasks,
	})
}

func (h *APIHandlers) ForceProjectStage(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	var req ForceStageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.projectService.ForceStage(c.Context(), organizationID(c), id, stages.ID(req.TargetStage))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": result.Project,
		"tasks":   result.Tasks,
	})
}

func (h *APIHandlers) ReportProjectDelay(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	var req ReportDelayRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	delay, err := h.projectService.ReportDelay(
		c.Context(),
		organizationID(c),
		id,
		stages.ID(req.Phase),
		req.Reason,
		req.AdditionalDays,
		req.ReportedBy,
	)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(delay)
}

func (h *APIHandlers) GetProjectTasks(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	req := services.ListTasksRequest{ProjectID: id}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		req.Status = &status
	}

	tasks, err := h.taskService.ListTasks(c.Context(), organizationID(c), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *APIHandlers) GetStages(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"stages": h.projectService.Stages()})
}

func (h *APIHandlers) EstimateStages(c fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")

	if from == "" || to == "" {
		return badRequest(c, "Both 'from' and 'to' stage parameters are required")
	}

	hours, err := h.projectService.EstimateDuration(stages.ID(from), stages.ID(to))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(EstimateResponse{
		FromStage:      from,
		ToStage:        to,
		EstimatedHours: hours,
	})
}

func (h *APIHandlers) GetTasks(c fiber.Ctx) error {
	req := services.ListTasksRequest{ProjectID: c.Query("project_id")}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		req.Status = &status
	}

	tasks, err := h.taskService.ListTasks(c.Context(), organizationID(c), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *APIHandlers) GetTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	task, err := h.taskService.GetTask(c.Context(), organizationID(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(task)
}

func (h *APIHandlers) AssignTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	task, err := h.taskService.AssignTask(c.Context(), organizationID(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(task)
}

func (h *APIHandlers) StartTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	task, err := h.taskService.StartTask(c.Context(), organizationID(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(task)
}

func (h *APIHandlers) CompleteTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	var req CompleteTaskRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	task, err := h.taskService.CompleteTask(c.Context(), organizationID(c), id, req.ActualHours)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(task)
}

func (h *APIHandlers) CreateStaff(c fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	staff, err := h.staffService.CreateStaff(c.Context(), services.CreateStaffRequest{
		OrganizationID:     organizationID(c),
		Name:               req.Name,
		Email:              req.Email,
		Role:               req.Role,
		Skills:             req.Skills,
		MaxConcurrentTasks: req.MaxConcurrentTasks,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(staff)
}

func (h *APIHandlers) GetStaff(c fiber.Ctx) error {
	members, err := h.staffService.ListStaff(c.Context(), organizationID(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"staff": members})
}

func (h *APIHandlers) GetStaffMember(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Staff ID is required")
	}

	staff, err := h.staffService.GetStaff(c.Context(), organizationID(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(staff)
}

func (h *APIHandlers) UpdateStaffMember(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Staff ID is required")
	}

	var req UpdateStaffRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	staff, err := h.staffService.UpdateStaff(c.Context(), organizationID(c), id, services.UpdateStaffRequest{
		Name:               req.Name,
		Email:              req.Email,
		Role:               req.Role,
		Skills:             req.Skills,
		MaxConcurrentTasks: req.MaxConcurrentTasks,
		IsActive:           req.IsActive,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(staff)
}

func (h *APIHandlers) GetBottlenecks(c fiber.Ctx) error {
	bottlenecks, err := h.taskService.Bottlenecks(c.Context(), organizationID(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"bottlenecks": bottlenecks})
}

func (h *APIHandlers) GetTaskMetrics(c fiber.Ctx) error {
	metrics, err := h.taskService.Metrics(c.Context(), organizationID(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(metrics)
}
