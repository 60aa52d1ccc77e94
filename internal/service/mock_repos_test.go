package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// ── 内存数据源：各 mock 共享，便于模拟预加载与外键 ──

type memStore struct {
	seq        int
	users      map[string]*model.User
	courses    map[string]*model.Course
	classrooms map[string]*model.Classroom
	slots      map[string]*model.TimeSlot
	batches    map[string]*model.Batch
	schedules  map[string]*model.ClassSchedule
	bookings   map[string]*model.ClassroomBooking

	// bookingCreateErr 非 nil 时 Booking.Create 直接返回该错误（模拟并发写入）
	bookingCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*model.User),
		courses:    make(map[string]*model.Course),
		classrooms: make(map[string]*model.Classroom),
		slots:      make(map[string]*model.TimeSlot),
		batches:    make(map[string]*model.Batch),
		schedules:  make(map[string]*model.ClassSchedule),
		bookings:   make(map[string]*model.ClassroomBooking),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

// repository 以 mock 组装 Repository 聚合（未绑定数据库，Transaction 直接执行）
func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:          &mockUserRepo{s},
		Course:        &mockCourseRepo{s},
		Classroom:     &mockClassroomRepo{s},
		TimeSlot:      &mockTimeSlotRepo{s},
		Batch:         &mockBatchRepo{s},
		ClassSchedule: &mockClassScheduleRepo{s},
		Booking:       &mockBookingRepo{s},
	}
}

// ── 种子辅助 ──

func (s *memStore) addUser(name, email, role string) *model.User {
	u := &model.User{UserID: s.nextID("user"), Name: name, Email: email, Role: role}
	s.users[u.UserID] = u
	return u
}

func (s *memStore) addCourse(code, name string) *model.Course {
	c := &model.Course{CourseID: s.nextID("course"), Code: code, Name: name, Credits: 3}
	s.courses[c.CourseID] = c
	return c
}

func (s *memStore) addClassroom(number, building string) *model.Classroom {
	r := &model.Classroom{ClassroomID: s.nextID("room"), RoomNumber: number, Building: building, Capacity: 60}
	s.classrooms[r.ClassroomID] = r
	return r
}

func (s *memStore) addSlot(day, start, end string) *model.TimeSlot {
	t := &model.TimeSlot{TimeSlotID: s.nextID("slot"), Day: day, StartTime: start + ":00", EndTime: end + ":00"}
	s.slots[t.TimeSlotID] = t
	return t
}

func (s *memStore) addBatch(year int, branch, section string) *model.Batch {
	b := &model.Batch{BatchID: s.nextID("batch"), Year: year, Branch: branch, Section: section}
	b.EnsureName()
	s.batches[b.BatchID] = b
	return b
}

func (s *memStore) addSchedule(course *model.Course, prof *model.User, batch *model.Batch, room *model.Classroom, slot *model.TimeSlot) *model.ClassSchedule {
	cs := &model.ClassSchedule{
		ScheduleID:  s.nextID("cs"),
		CourseID:    course.CourseID,
		ProfessorID: prof.UserID,
		BatchID:     batch.BatchID,
		ClassroomID: room.ClassroomID,
		TimeSlotID:  slot.TimeSlotID,
	}
	s.schedules[cs.ScheduleID] = cs
	return cs
}

func (s *memStore) hydrateSchedule(cs *model.ClassSchedule) *model.ClassSchedule {
	c := *cs
	c.Course = s.courses[c.CourseID]
	c.Professor = s.users[c.ProfessorID]
	c.Batch = s.batches[c.BatchID]
	c.Classroom = s.classrooms[c.ClassroomID]
	c.TimeSlot = s.slots[c.TimeSlotID]
	return &c
}

func (s *memStore) hydrateBooking(b *model.ClassroomBooking) *model.ClassroomBooking {
	c := *b
	c.Professor = s.users[c.ProfessorID]
	c.Classroom = s.classrooms[c.ClassroomID]
	if c.BatchID != nil {
		c.Batch = s.batches[*c.BatchID]
	}
	return &c
}

// referenced 外键引用检查
func (s *memStore) referenced(match func(cs *model.ClassSchedule) bool) bool {
	for _, cs := range s.schedules {
		if match(cs) {
			return true
		}
	}
	return false
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *memStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = m.s.nextID("user")
	}
	m.s.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.s.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.s.users {
		if role == "" || u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ s *memStore }

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.s.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if course.CourseID == "" {
		course.CourseID = m.s.nextID("course")
	}
	m.s.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.s.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.s.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.s.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.s.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if m.s.referenced(func(cs *model.ClassSchedule) bool { return cs.CourseID == id }) {
		return gorm.ErrForeignKeyViolated
	}
	delete(m.s.courses, id)
	return nil
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct{ s *memStore }

func (m *mockClassroomRepo) Create(_ context.Context, room *model.Classroom) error {
	for _, r := range m.s.classrooms {
		if r.RoomNumber == room.RoomNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if room.ClassroomID == "" {
		room.ClassroomID = m.s.nextID("room")
	}
	m.s.classrooms[room.ClassroomID] = room
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if r, ok := m.s.classrooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) GetByRoomNumber(_ context.Context, roomNumber string) (*model.Classroom, error) {
	for _, r := range m.s.classrooms {
		if r.RoomNumber == roomNumber {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) List(_ context.Context) ([]model.Classroom, error) {
	var result []model.Classroom
	for _, r := range m.s.classrooms {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Building != result[j].Building {
			return result[i].Building < result[j].Building
		}
		return result[i].RoomNumber < result[j].RoomNumber
	})
	return result, nil
}

func (m *mockClassroomRepo) Update(_ context.Context, room *model.Classroom) error {
	m.s.classrooms[room.ClassroomID] = room
	return nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id string) error {
	if m.s.referenced(func(cs *model.ClassSchedule) bool { return cs.ClassroomID == id }) {
		return gorm.ErrForeignKeyViolated
	}
	for _, b := range m.s.bookings {
		if b.ClassroomID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(m.s.classrooms, id)
	return nil
}

func (m *mockClassroomRepo) LockByID(ctx context.Context, id string) (*model.Classroom, error) {
	return m.GetByID(ctx, id)
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct{ s *memStore }

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if slot.TimeSlotID == "" {
		slot.TimeSlotID = m.s.nextID("slot")
	}
	m.s.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	if t, ok := m.s.slots[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) FindByRange(_ context.Context, day, start, end string) (*model.TimeSlot, error) {
	for _, t := range m.s.slots {
		if t.Day == day && clockText(t.StartTime) == clockText(start) && clockText(t.EndTime) == clockText(end) {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) List(_ context.Context, day string) ([]model.TimeSlot, error) {
	var result []model.TimeSlot
	for _, t := range m.s.slots {
		if day == "" || t.Day == day {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		di, dj := result[i].Weekday().Index(), result[j].Weekday().Index()
		if di != dj {
			return di < dj
		}
		return clockText(result[i].StartTime) < clockText(result[j].StartTime)
	})
	return result, nil
}

func (m *mockTimeSlotRepo) Update(_ context.Context, slot *model.TimeSlot) error {
	m.s.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id string) error {
	if m.s.referenced(func(cs *model.ClassSchedule) bool { return cs.TimeSlotID == id }) {
		return gorm.ErrForeignKeyViolated
	}
	delete(m.s.slots, id)
	return nil
}

// ── Mock BatchRepository ──

type mockBatchRepo struct{ s *memStore }

func (m *mockBatchRepo) Create(_ context.Context, batch *model.Batch) error {
	if batch.BatchID == "" {
		batch.BatchID = m.s.nextID("batch")
	}
	m.s.batches[batch.BatchID] = batch
	return nil
}

func (m *mockBatchRepo) GetByID(_ context.Context, id string) (*model.Batch, error) {
	if b, ok := m.s.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) GetByCohort(_ context.Context, year int, branch, section string) (*model.Batch, error) {
	for _, b := range m.s.batches {
		if b.Year == year && b.Branch == branch && b.Section == section {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) List(_ context.Context, filter repository.BatchFilter) ([]model.Batch, error) {
	var result []model.Batch
	for _, b := range m.s.batches {
		if filter.Year != 0 && b.Year != filter.Year {
			continue
		}
		if filter.Branch != "" && b.Branch != filter.Branch {
			continue
		}
		if filter.Section != "" && b.Section != filter.Section {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result, nil
}

func (m *mockBatchRepo) Update(_ context.Context, batch *model.Batch) error {
	m.s.batches[batch.BatchID] = batch
	return nil
}

func (m *mockBatchRepo) Delete(_ context.Context, id string) error {
	if m.s.referenced(func(cs *model.ClassSchedule) bool { return cs.BatchID == id }) {
		return gorm.ErrForeignKeyViolated
	}
	delete(m.s.batches, id)
	return nil
}

// ── Mock ClassScheduleRepository ──

type mockClassScheduleRepo struct{ s *memStore }

func (m *mockClassScheduleRepo) Create(_ context.Context, cs *model.ClassSchedule) error {
	for _, e := range m.s.schedules {
		if e.TimeSlotID == cs.TimeSlotID && (e.ClassroomID == cs.ClassroomID || e.BatchID == cs.BatchID) {
			return gorm.ErrDuplicatedKey
		}
	}
	if cs.ScheduleID == "" {
		cs.ScheduleID = m.s.nextID("cs")
	}
	stored := *cs
	m.s.schedules[cs.ScheduleID] = &stored
	return nil
}

func (m *mockClassScheduleRepo) GetByID(_ context.Context, id string) (*model.ClassSchedule, error) {
	if cs, ok := m.s.schedules[id]; ok {
		return m.s.hydrateSchedule(cs), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassScheduleRepo) List(_ context.Context, filter repository.ClassScheduleFilter) ([]model.ClassSchedule, error) {
	batchSet := make(map[string]bool, len(filter.BatchIDs))
	for _, id := range filter.BatchIDs {
		batchSet[id] = true
	}
	var result []model.ClassSchedule
	for _, cs := range m.s.schedules {
		if len(batchSet) > 0 && !batchSet[cs.BatchID] {
			continue
		}
		if filter.ProfessorID != "" && cs.ProfessorID != filter.ProfessorID {
			continue
		}
		if filter.ClassroomID != "" && cs.ClassroomID != filter.ClassroomID {
			continue
		}
		h := m.s.hydrateSchedule(cs)
		if filter.Day != "" && (h.TimeSlot == nil || h.TimeSlot.Day != filter.Day) {
			continue
		}
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].TimeSlot, result[j].TimeSlot
		if a.Weekday().Index() != b.Weekday().Index() {
			return a.Weekday().Index() < b.Weekday().Index()
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return result[i].ScheduleID < result[j].ScheduleID
	})
	return result, nil
}

func (m *mockClassScheduleRepo) FindByRoomSlot(_ context.Context, classroomID, timeSlotID string) (*model.ClassSchedule, error) {
	for _, cs := range m.s.schedules {
		if cs.ClassroomID == classroomID && cs.TimeSlotID == timeSlotID {
			return m.s.hydrateSchedule(cs), nil
		}
	}
	return nil, nil
}

func (m *mockClassScheduleRepo) FindByBatchSlot(_ context.Context, batchID, timeSlotID string) (*model.ClassSchedule, error) {
	for _, cs := range m.s.schedules {
		if cs.BatchID == batchID && cs.TimeSlotID == timeSlotID {
			return m.s.hydrateSchedule(cs), nil
		}
	}
	return nil, nil
}

func (m *mockClassScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.s.schedules, id)
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct{ s *memStore }

func sameBookingSlot(a, b *model.ClassroomBooking) bool {
	return a.ClassroomID == b.ClassroomID &&
		a.DateString() == b.DateString() &&
		clockText(a.StartTime) == clockText(b.StartTime) &&
		clockText(a.EndTime) == clockText(b.EndTime)
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.ClassroomBooking) error {
	if m.s.bookingCreateErr != nil {
		return m.s.bookingCreateErr
	}
	// 部分唯一索引：仅 pending / approved 参与
	for _, e := range m.s.bookings {
		if e.BookingStatus().Blocks() && sameBookingSlot(e, b) {
			return gorm.ErrDuplicatedKey
		}
	}
	if b.BookingID == "" {
		b.BookingID = m.s.nextID("bk")
	}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	b.CreatedAt, b.UpdatedAt = now, now
	stored := *b
	stored.Professor, stored.Classroom, stored.Batch = nil, nil, nil
	m.s.bookings[b.BookingID] = &stored
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.ClassroomBooking, error) {
	if b, ok := m.s.bookings[id]; ok {
		return m.s.hydrateBooking(b), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) Update(_ context.Context, b *model.ClassroomBooking) error {
	cur, ok := m.s.bookings[b.BookingID]
	if !ok || cur.Version != b.Version {
		return pkgerrors.ErrOptimisticLock
	}
	b.Version++
	stored := *b
	stored.Professor, stored.Classroom, stored.Batch = nil, nil, nil
	m.s.bookings[b.BookingID] = &stored
	return nil
}

func (m *mockBookingRepo) ListBlocking(_ context.Context, date time.Time, classroomID string) ([]model.ClassroomBooking, error) {
	day := date.Format(scheduling.DateLayout)
	var result []model.ClassroomBooking
	for _, b := range m.s.bookings {
		if !b.BookingStatus().Blocks() || b.DateString() != day {
			continue
		}
		if classroomID != "" && b.ClassroomID != classroomID {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (m *mockBookingRepo) ListByProfessor(_ context.Context, professorID string, limit int) ([]model.ClassroomBooking, error) {
	var result []model.ClassroomBooking
	for _, b := range m.s.bookings {
		if b.ProfessorID == professorID {
			result = append(result, *m.s.hydrateBooking(b))
		}
	}
	sortBookingsDesc(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockBookingRepo) List(_ context.Context, filter repository.BookingFilter, offset, limit int) ([]model.ClassroomBooking, int64, error) {
	var all []model.ClassroomBooking
	for _, b := range m.s.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Date != nil && b.DateString() != filter.Date.Format(scheduling.DateLayout) {
			continue
		}
		if filter.ClassroomID != "" && b.ClassroomID != filter.ClassroomID {
			continue
		}
		if filter.ProfessorID != "" && b.ProfessorID != filter.ProfessorID {
			continue
		}
		all = append(all, *m.s.hydrateBooking(b))
	}
	sortBookingsDesc(all)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.ClassroomBooking{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func sortBookingsDesc(items []model.ClassroomBooking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DateString() != items[j].DateString() {
			return items[i].DateString() > items[j].DateString()
		}
		return items[i].StartTime > items[j].StartTime
	})
}

// ── 其他依赖 ──

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// mockCache 内存版空闲表缓存
type mockCache struct {
	data        map[string][]byte
	invalidated []string
	flushes     int
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (c *mockCache) GetAvailability(_ context.Context, date string) ([]byte, bool, error) {
	d, ok := c.data[date]
	return d, ok, nil
}

func (c *mockCache) SetAvailability(_ context.Context, date string, data []byte, _ time.Duration) error {
	c.data[date] = data
	return nil
}

func (c *mockCache) InvalidateAvailability(_ context.Context, dates ...string) error {
	for _, d := range dates {
		delete(c.data, d)
		c.invalidated = append(c.invalidated, d)
	}
	return nil
}

func (c *mockCache) InvalidateAllAvailability(_ context.Context) error {
	c.data = make(map[string][]byte)
	c.flushes++
	return nil
}

// mockLimiter 计数限流：前 allow 次放行
type mockLimiter struct {
	allow int
	calls int
}

func (l *mockLimiter) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	l.calls++
	return l.calls <= l.allow, nil
}

// mockBlacklist 内存版 Token 黑名单
type mockBlacklist struct {
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist { return &mockBlacklist{revoked: make(map[string]time.Duration)} }

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.revoked[jti] = ttl
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.revoked[jti]
	return ok, nil
}

// ── 公共测试数据 ──

// testNow 2025-03-01（周六）09:00 UTC；2025-03-10 为周一
var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type campusFixture struct {
	store *memStore
	repo  *repository.Repository
	admin *model.User
	prof  *model.User
	other *model.User
	l101  *model.Classroom
	l102  *model.Classroom
	cs101 *model.Course
	batch *model.Batch
}

func newCampusFixture() *campusFixture {
	s := newMemStore()
	return &campusFixture{
		store: s,
		repo:  s.repository(),
		admin: s.addUser("Admin", "admin@campus.edu", model.RoleAdmin),
		prof:  s.addUser("Dr. Rao", "rao@campus.edu", model.RoleProfessor),
		other: s.addUser("Dr. Iyer", "iyer@campus.edu", model.RoleProfessor),
		l101:  s.addClassroom("L101", "LHTC"),
		l102:  s.addClassroom("L102", "LHTC"),
		cs101: s.addCourse("CS101", "Programming"),
		batch: s.addBatch(2025, "cs", "A"),
	}
}
