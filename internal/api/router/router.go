package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/api/handler"
	"github.com/VeeraVardhan35/campusConnect/internal/api/middleware"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/pkg/jwt"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
	"github.com/VeeraVardhan35/campusConnect/pkg/redis"
)

const (
	roleAdmin     = model.RoleAdmin
	roleProfessor = model.RoleProfessor
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	authRequired := middleware.JWTAuth(jwtMgr, rdb)
	adminOnly := middleware.RoleAuth(roleAdmin)
	staff := middleware.RoleAuth(roleAdmin, roleProfessor)
	professorOnly := middleware.RoleAuth(roleProfessor)

	// ── 教室状态推送 ──
	r.GET("/ws/classroom-status", authRequired, h.Status.Stream)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, "login", 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(authRequired)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块
			users := authorized.Group("/users", adminOnly)
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
			}

			// 课程
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", adminOnly, h.Course.CreateCourse)
				courses.PUT("/:id", adminOnly, h.Course.UpdateCourse)
				courses.DELETE("/:id", adminOnly, h.Course.DeleteCourse)
			}

			// 教室与实时状态
			classrooms := authorized.Group("/classrooms")
			{
				classrooms.GET("", h.Classroom.ListClassrooms)
				classrooms.GET("/status", h.Availability.ClassroomStatus)
				classrooms.GET("/:id", h.Classroom.GetClassroom)
				classrooms.POST("", adminOnly, h.Classroom.CreateClassroom)
				classrooms.PUT("/:id", adminOnly, h.Classroom.UpdateClassroom)
				classrooms.DELETE("/:id", adminOnly, h.Classroom.DeleteClassroom)
			}

			// 时间段
			timeSlots := authorized.Group("/time-slots")
			{
				timeSlots.GET("", h.TimeSlot.ListTimeSlots)
				timeSlots.GET("/:id", h.TimeSlot.GetTimeSlot)
				timeSlots.POST("", adminOnly, h.TimeSlot.CreateTimeSlot)
				timeSlots.PUT("/:id", adminOnly, h.TimeSlot.UpdateTimeSlot)
				timeSlots.DELETE("/:id", adminOnly, h.TimeSlot.DeleteTimeSlot)
			}

			// 班级
			batches := authorized.Group("/batches")
			{
				batches.GET("", h.Batch.ListBatches)
				batches.GET("/:id", h.Batch.GetBatch)
				batches.POST("", adminOnly, h.Batch.CreateBatch)
				batches.PUT("/:id", adminOnly, h.Batch.UpdateBatch)
				batches.DELETE("/:id", adminOnly, h.Batch.DeleteBatch)
			}

			// 固定课表
			schedules := authorized.Group("/class-schedules")
			{
				schedules.GET("", h.ClassSchedule.ListClassSchedules)
				schedules.GET("/weekly", h.Timetable.Weekly)
				schedules.GET("/audit/professor-clashes", adminOnly, h.Timetable.ProfessorClashes)
				schedules.GET("/:id", h.ClassSchedule.GetClassSchedule)
				schedules.POST("", adminOnly, h.ClassSchedule.CreateClassSchedule)
				schedules.DELETE("/:id", adminOnly, h.ClassSchedule.DeleteClassSchedule)
			}

			// 空闲表
			authorized.GET("/availability", h.Availability.FreeSlots)

			// 临时预订
			bookings := authorized.Group("/bookings")
			{
				bookings.POST("/check", staff, h.Booking.CheckConflict)
				bookings.GET("/prefill", professorOnly, h.Booking.Prefill)
				bookings.GET("/mine", professorOnly, h.Booking.ListMyBookings)
				bookings.POST("", professorOnly, h.Booking.CreateBooking)
				bookings.GET("", adminOnly, h.Booking.ListBookings)
				bookings.GET("/:id", staff, h.Booking.GetBooking)
				bookings.PUT("/:id", professorOnly, h.Booking.UpdateBooking)
				bookings.POST("/:id/cancel", professorOnly, h.Booking.CancelBooking)
				bookings.POST("/:id/approve", adminOnly, h.Booking.ApproveBooking)
				bookings.POST("/:id/reject", adminOnly, h.Booking.RejectBooking)
			}

			// 教师工作台
			authorized.GET("/dashboard/professor", professorOnly, h.Dashboard.Professor)

			// 导出
			export := authorized.Group("/export", staff)
			{
				export.GET("/timetable.xlsx", h.Export.ExportTimetable)
				export.GET("/calendar.ics", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
