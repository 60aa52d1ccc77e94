package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/validator"
	"github.com/VeeraVardhan35/campusConnect/pkg/jwt"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	loggedOut     *jwt.Claims
	revokedRT     string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims, refreshToken string) error {
	m.loggedOut, m.revokedRT = claims, refreshToken
	return m.logoutErr
}

// ── Mock UserService ──

type mockUserService struct {
	user    *dto.UserResponse
	users   []dto.UserResponse
	err     error
	lastReq *dto.UserListRequest
}

func (m *mockUserService) GetByID(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.user, m.err
}
func (m *mockUserService) List(_ context.Context, req *dto.UserListRequest) ([]dto.UserResponse, error) {
	m.lastReq = req
	return m.users, m.err
}

// ── Mock CourseService ──

type mockCourseService struct {
	course *dto.CourseResponse
	err    error
}

func (m *mockCourseService) Create(_ context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CourseResponse{ID: "c-1", Code: req.Code, Name: req.Name}, nil
}
func (m *mockCourseService) GetByID(_ context.Context, _ string) (*dto.CourseResponse, error) {
	return m.course, m.err
}
func (m *mockCourseService) List(_ context.Context) ([]dto.CourseResponse, error) {
	return nil, m.err
}
func (m *mockCourseService) Update(_ context.Context, _ string, _ *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	return m.course, m.err
}
func (m *mockCourseService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock BookingService ──

type mockBookingService struct {
	booking     *dto.BookingResponse
	err         error
	createdBy   string
	lastCreate  *dto.CreateBookingRequest
	page        *dto.PageResponse[dto.BookingResponse]
	lastListReq *dto.BookingListRequest
}

func (m *mockBookingService) Create(_ context.Context, profID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	m.createdBy, m.lastCreate = profID, req
	return m.booking, m.err
}
func (m *mockBookingService) Update(_ context.Context, _, _ string, _ *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	return m.booking, m.err
}
func (m *mockBookingService) Cancel(_ context.Context, _, _ string) (*dto.BookingResponse, error) {
	return m.booking, m.err
}
func (m *mockBookingService) Approve(_ context.Context, _ string) (*dto.BookingResponse, error) {
	return m.booking, m.err
}
func (m *mockBookingService) Reject(_ context.Context, _ string) (*dto.BookingResponse, error) {
	return m.booking, m.err
}
func (m *mockBookingService) Get(_ context.Context, _, _, _ string) (*dto.BookingResponse, error) {
	return m.booking, m.err
}
func (m *mockBookingService) ListMine(_ context.Context, _ string) ([]dto.BookingResponse, error) {
	return nil, m.err
}
func (m *mockBookingService) List(_ context.Context, req *dto.BookingListRequest) (*dto.PageResponse[dto.BookingResponse], error) {
	m.lastListReq = req
	return m.page, m.err
}
func (m *mockBookingService) Prefill(_ context.Context, req *dto.PrefillRequest) (*dto.BookingFormResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.BookingFormResponse{Date: req.Date, StartTime: req.Time, EndTime: "11:00"}, nil
}

// ── Mock ConflictService ──

type mockConflictService struct {
	result *dto.ConflictCheckResponse
	err    error
}

func (m *mockConflictService) CheckBooking(_ context.Context, _ *dto.CheckBookingRequest) (*dto.ConflictCheckResponse, error) {
	return m.result, m.err
}

// ── Mock AvailabilityService ──

type mockAvailabilityService struct {
	freeSlots *dto.AvailabilityResponse
	status    *dto.ClassroomStatusResponse
	err       error
	lastDate  string
	lastAt    string
}

func (m *mockAvailabilityService) FreeSlots(_ context.Context, date string) (*dto.AvailabilityResponse, error) {
	m.lastDate = date
	return m.freeSlots, m.err
}
func (m *mockAvailabilityService) ClassroomStatus(_ context.Context, at string) (*dto.ClassroomStatusResponse, error) {
	m.lastAt = at
	return m.status, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf         *bytes.Buffer
	filename    string
	err         error
	lastProfID  string
	lastBatchID string
}

func (m *mockExportService) TimetableXLSX(_ context.Context, batchID, professorID string) (*bytes.Buffer, string, error) {
	m.lastBatchID, m.lastProfID = batchID, professorID
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ProfessorCalendar(_ context.Context, professorID string) (*bytes.Buffer, string, error) {
	m.lastProfID = professorID
	return m.buf, m.filename, m.err
}

// ── Stub ClassScheduleService ──

type stubClassScheduleService struct {
	err error
}

func (s *stubClassScheduleService) Create(_ context.Context, _ *dto.CreateClassScheduleRequest) (*dto.ClassScheduleResponse, error) {
	return nil, s.err
}
func (s *stubClassScheduleService) GetByID(_ context.Context, _ string) (*dto.ClassScheduleResponse, error) {
	return nil, s.err
}
func (s *stubClassScheduleService) List(_ context.Context, _ *dto.ClassScheduleListRequest) ([]dto.ClassScheduleResponse, error) {
	return nil, s.err
}
func (s *stubClassScheduleService) Delete(_ context.Context, _ string) error {
	return s.err
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

const (
	testProfID  = "6f1c7d62-3f4b-4a55-9d2e-1f2a3b4c5d01"
	testAdminID = "6f1c7d62-3f4b-4a55-9d2e-1f2a3b4c5d02"
	testRoomID  = "6f1c7d62-3f4b-4a55-9d2e-1f2a3b4c5d10"
)

// withAuth 模拟 JWT 中间件注入的上下文
func withAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Set(ctxClaims, &jwt.Claims{UserID: userID, Role: role, TokenType: jwt.TokenTypeAccess})
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func details(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	d, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected details object, got %T", resp.Details)
	}
	return d
}

func serve(r *gin.Engine, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func validBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"classroom_id": testRoomID,
		"date":         "2025-03-10",
		"start_time":   "10:00",
		"end_time":     "11:00",
		"course_name":  "Programming",
		"purpose":      "Extra lab",
	}
}
