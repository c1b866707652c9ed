package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
)

type schoolAPI struct {
	service  *school.Service
	accounts *account.Service
}

func registerSchoolAPI(g *echo.Group, svc *school.Service, accts *account.Service) {
	api := schoolAPI{service: svc, accounts: accts}

	cg := g.Group("/classes")
	cg.POST("", api.classCreate)
	cg.GET("", api.classQuery)
	cg.GET("/teacher/:username", api.classQueryByTeacher)
	cg.DELETE("/:classId", api.classDestroy)

	g.GET("/students/:classId", api.studentQuery)

	ag := g.Group("/assignments")
	ag.POST("", api.assignmentCreate)
	ag.GET("", api.assignmentQuery)
}

type ClassCreatedResponse struct {
	Message string       `json:"message"`
	Class   school.Class `json:"class"`
}

type AssignmentCreatedResponse struct {
	Message    string            `json:"message"`
	Assignment school.Assignment `json:"assignment"`
}

type classDestroyRequest struct {
	CreatedBy string `json:"createdBy"`
}

// Handlers

func (api *schoolAPI) classCreate(ctx echo.Context) error {
	data := new(school.NewClass)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	cls, err := api.service.CreateClass(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ClassCreatedResponse{Message: "Class created", Class: cls})
}

func (api *schoolAPI) classQuery(ctx echo.Context) error {
	classes, err := api.service.QueryAllClasses(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolAPI) classQueryByTeacher(ctx echo.Context) error {
	classes, err := api.service.FilterClassesByOwner(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolAPI) classDestroy(ctx echo.Context) error {
	data := new(classDestroyRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	if err := api.service.DeleteClass(ctx.Request().Context(), ctx.Param("classId"), data.CreatedBy); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "Class and associated data deleted"})
}

func (api *schoolAPI) studentQuery(ctx echo.Context) error {
	students, err := api.accounts.ListStudents(ctx.Request().Context(), ctx.Param("classId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolAPI) assignmentCreate(ctx echo.Context) error {
	data := new(school.NewAssignment)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	a, err := api.service.CreateAssignment(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, AssignmentCreatedResponse{Message: "Assignment created", Assignment: a})
}

func (api *schoolAPI) assignmentQuery(ctx echo.Context) error {
	assignments, err := api.service.FilterAssignments(ctx.Request().Context(), ctx.QueryParam("classId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}
