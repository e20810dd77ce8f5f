package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	attendanceHandler *AttendanceHandler
	reportHandler     *ReportHandler
	roleHandler       *RoleHandler
	studentHandler    *StudentHandler
	gradeHandler      *GradeHandler
	contentHandler    *ContentHandler
	publicHandler     *PublicHandler
	authMiddleware    *AuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		reportHandler:     NewReportHandler(serviceManager.Progress(), serviceManager.Attendance(), serviceManager.Export(), logger),
		roleHandler:       NewRoleHandler(serviceManager.Role(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger),
		gradeHandler:      NewGradeHandler(serviceManager.Grade(), logger),
		contentHandler:    NewContentHandler(serviceManager.Content(), logger),
		publicHandler:     NewPublicHandler(serviceManager.Content(), logger),
		authMiddleware:    NewAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Public marketing-site endpoints, no authentication
	public := v1.Group("/public")
	{
		public.GET("/pages", hm.publicHandler.ListPages)
		public.GET("/pages/:slug", hm.publicHandler.GetPageBySlug)
		public.GET("/facilities", hm.publicHandler.ListFacilities)
		public.GET("/projects", hm.publicHandler.ListProjects)
		public.GET("/achievements", hm.publicHandler.ListAchievements)
		public.GET("/team", hm.publicHandler.ListTeamMembers)
		public.GET("/settings/:key", hm.publicHandler.GetSetting)
	}

	// Login endpoints, no authentication
	auth := v1.Group("/auth")
	{
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/student-login", hm.authHandler.StudentLogin)
	}

	// Everything below requires a valid bearer token
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.Authenticate())
	{
		authed.POST("/auth/logout", hm.authHandler.Logout)
		authed.GET("/auth/me", hm.authHandler.Me)

		attendance := authed.Group("/attendance")
		{
			attendance.POST("", hm.authMiddleware.RequirePermission(models.PermRecordAttendance), hm.attendanceHandler.Record)
			attendance.POST("/batch", hm.authMiddleware.RequirePermission(models.PermRecordAttendance), hm.attendanceHandler.RecordBatch)
			attendance.GET("", hm.authMiddleware.RequirePermission(models.PermViewReports), hm.attendanceHandler.ListForDate)
		}

		reports := authed.Group("/reports")
		reports.Use(hm.authMiddleware.RequirePermission(models.PermViewReports))
		{
			reports.GET("/daily", hm.reportHandler.Daily)
			reports.GET("/weekly", hm.reportHandler.Weekly)
			reports.GET("/monthly", hm.reportHandler.Monthly)
			reports.GET("/progress", hm.reportHandler.Progress)
			reports.GET("/students/:id", hm.reportHandler.StudentProgress)
			reports.GET("/attendance/export", hm.reportHandler.ExportAttendance)
		}

		authed.GET("/dashboard/stats", hm.authMiddleware.RequirePermission(models.PermViewReports), hm.reportHandler.Dashboard)

		roles := authed.Group("/roles")
		roles.Use(hm.authMiddleware.RequirePermission(models.PermManageRoles))
		{
			roles.POST("", hm.roleHandler.CreateRole)
			roles.GET("", hm.roleHandler.ListRoles)
			roles.GET("/:id", hm.roleHandler.GetRole)
			roles.PUT("/:id", hm.roleHandler.UpdateRole)
			roles.DELETE("/:id", hm.roleHandler.DeleteRole)
		}
		authed.GET("/permissions", hm.authMiddleware.RequirePermission(models.PermManageRoles), hm.roleHandler.ListPermissions)

		users := authed.Group("/users")
		users.Use(hm.authMiddleware.RequirePermission(models.PermManageUsers))
		{
			users.POST("", hm.userHandler.CreateUser)
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
		}

		students := authed.Group("/students")
		students.Use(hm.authMiddleware.RequirePermission(models.PermManageStudents))
		{
			students.POST("", hm.studentHandler.CreateStudent)
			students.POST("/import", hm.studentHandler.ImportStudents)
			students.GET("", hm.studentHandler.ListStudents)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.PUT("/:id", hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.studentHandler.DeleteStudent)
		}

		grades := authed.Group("/grades")
		grades.Use(hm.authMiddleware.RequirePermission(models.PermManageGrades))
		{
			grades.POST("", hm.gradeHandler.RecordGrade)
			grades.GET("", hm.gradeHandler.ListGrades)
			grades.DELETE("/:id", hm.gradeHandler.DeleteGrade)
		}

		subjects := authed.Group("/subjects")
		{
			subjects.GET("", hm.gradeHandler.ListSubjects)
			subjects.POST("", hm.authMiddleware.RequirePermission(models.PermManageGrades), hm.gradeHandler.CreateSubject)
		}

		exams := authed.Group("/exams")
		{
			exams.GET("", hm.gradeHandler.ListExams)
			exams.GET("/:id", hm.gradeHandler.GetExam)
			exams.POST("", hm.authMiddleware.RequirePermission(models.PermManageExams), hm.gradeHandler.CreateExam)
			exams.PUT("/:id", hm.authMiddleware.RequirePermission(models.PermManageExams), hm.gradeHandler.UpdateExam)
			exams.DELETE("/:id", hm.authMiddleware.RequirePermission(models.PermManageExams), hm.gradeHandler.DeleteExam)
		}

		pages := authed.Group("/pages")
		{
			pages.POST("", hm.authMiddleware.RequirePermission(models.PermCreatePages), hm.contentHandler.CreatePage)
			pages.GET("", hm.contentHandler.ListPages)
			pages.GET("/:id", hm.contentHandler.GetPage)
			// Ownership or edit_pages is enforced in the service layer.
			pages.PUT("/:id", hm.contentHandler.UpdatePage)
			pages.DELETE("/:id", hm.contentHandler.DeletePage)
		}

		content := authed.Group("")
		content.Use(hm.authMiddleware.RequirePermission(models.PermManageContent))
		{
			facilities := content.Group("/facilities")
			{
				facilities.POST("", hm.contentHandler.CreateFacility)
				facilities.GET("", hm.contentHandler.ListFacilities)
				facilities.PUT("/:id", hm.contentHandler.UpdateFacility)
				facilities.DELETE("/:id", hm.contentHandler.DeleteFacility)
				facilities.PATCH("/:id/toggle", hm.contentHandler.ToggleFacility)
			}

			projects := content.Group("/projects")
			{
				projects.POST("", hm.contentHandler.CreateProject)
				projects.GET("", hm.contentHandler.ListProjects)
				projects.PUT("/:id", hm.contentHandler.UpdateProject)
				projects.DELETE("/:id", hm.contentHandler.DeleteProject)
				projects.PATCH("/:id/toggle", hm.contentHandler.ToggleProject)
			}

			achievements := content.Group("/achievements")
			{
				achievements.POST("", hm.contentHandler.CreateAchievement)
				achievements.GET("", hm.contentHandler.ListAchievements)
				achievements.PUT("/:id", hm.contentHandler.UpdateAchievement)
				achievements.DELETE("/:id", hm.contentHandler.DeleteAchievement)
				achievements.PATCH("/:id/toggle", hm.contentHandler.ToggleAchievement)
			}

			team := content.Group("/team-members")
			{
				team.POST("", hm.contentHandler.CreateTeamMember)
				team.GET("", hm.contentHandler.ListTeamMembers)
				team.PUT("/:id", hm.contentHandler.UpdateTeamMember)
				team.DELETE("/:id", hm.contentHandler.DeleteTeamMember)
				team.PATCH("/:id/toggle", hm.contentHandler.ToggleTeamMember)
			}
		}

		settings := authed.Group("/settings")
		settings.Use(hm.authMiddleware.RequirePermission(models.PermManageSettings))
		{
			settings.GET("", hm.contentHandler.ListSettings)
			settings.PUT("", hm.contentHandler.UpdateSetting)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "school-service",
	})
}
