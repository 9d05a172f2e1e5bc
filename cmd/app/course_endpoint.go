package main

import (
	"net/http"
	"strconv"

	"AnyCademyAPI/internal/middleware"
	"AnyCademyAPI/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func registerCourseRoutes(g *echo.Group, courseSvc *services.CourseService) {
	courses := g.Group("/courses")

	// public catalog
	courses.GET("", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))

		list, err := courseSvc.Browse(c.Request().Context(), limit, offset)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"courses": list})
	})

	courses.GET("/:courseId", func(c echo.Context) error {
		courseID, err := uuid.Parse(c.Param("courseId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
		}

		course, err := courseSvc.Get(c.Request().Context(), courseID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, course)
	})

	// authenticated
	me := g.Group("/me")
	me.Use(middleware.JWTMiddleware())

	// Access check the player calls before streaming content.
	me.GET("/courses/:courseId/access", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}

		courseID, err := uuid.Parse(c.Param("courseId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
		}

		enrolled, err := courseSvc.IsEnrolled(c.Request().Context(), cl.UserID, courseID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"enrolled": enrolled})
	})

	me.GET("/enrollments", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}

		enrollments, err := courseSvc.MyEnrollments(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"enrollments": enrollments})
	})
}
