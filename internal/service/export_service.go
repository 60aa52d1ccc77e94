package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportScope        = pkgerrors.NewValidation("batch_id", "batch_id 与 professor_id 须且只能指定一个")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const calendarProductID = "-//campus-connect//timetable//EN"

// icsDays 星期 → RRULE BYDAY 取值
var icsDays = map[scheduling.Weekday]string{
	scheduling.Monday:    "MO",
	scheduling.Tuesday:   "TU",
	scheduling.Wednesday: "WE",
	scheduling.Thursday:  "TH",
	scheduling.Friday:    "FR",
	scheduling.Saturday:  "SA",
}

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response：
//   - 周课表 .xlsx：行为节次，列为六个教学日
//   - 教师日历 .ics：固定课表为每周重复事件，预订为单次事件
type ExportService interface {
	// TimetableXLSX 导出某班级或某教师的周课表
	TimetableXLSX(ctx context.Context, batchID, professorID string) (*bytes.Buffer, string, error)
	// ProfessorCalendar 导出教师日历，重复事件从当前周开始
	ProfessorCalendar(ctx context.Context, professorID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clock Clock, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, clock: clock, loc: loc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// TimetableXLSX — 周课表导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：班级名或教师姓名
//   - 行头：节次 "HH:MM-HH:MM"（按开始时间排序）
//   - 列头：Monday ~ Saturday
//   - 单元格：课程代码 课程名 / 教室 / 教师简称或班级

func (s *exportService) TimetableXLSX(ctx context.Context, batchID, professorID string) (*bytes.Buffer, string, error) {
	if (batchID == "") == (professorID == "") {
		return nil, "", ErrExportScope
	}

	var (
		title  string
		filter repository.ClassScheduleFilter
	)
	if batchID != "" {
		batch, err := s.repo.Batch.GetByID(ctx, batchID)
		if err != nil {
			return nil, "", notFoundOr(err, ErrBatchNotFound)
		}
		title = batch.Name
		filter.BatchIDs = []string{batch.BatchID}
	} else {
		professor, err := s.repo.User.GetByID(ctx, professorID)
		if err != nil {
			return nil, "", notFoundOr(err, ErrProfessorNotFound)
		}
		title = professor.Name
		filter.ProfessorID = professor.UserID
	}

	items, err := s.repo.ClassSchedule.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}

	// 1. 建立 "星期|节次" → 单元格文本 的索引
	index := make(map[string][]string)
	slots := make([]*model.TimeSlot, 0, len(items))
	for i := range items {
		cs := &items[i]
		rec, ok := recurringOf(cs)
		if !ok {
			continue
		}
		slots = append(slots, cs.TimeSlot)
		key := string(rec.Day) + "|" + rec.Slot.String()
		index[key] = append(index[key], cellText(cs, batchID != ""))
	}
	periods := periodsOf(slots)

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	lastCol := colName(len(scheduling.TeachingDays))
	f.SetColWidth(sheetName, "B", lastCol, 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	bodyStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", title+" - Weekly Timetable")
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Time")
	for i, d := range scheduling.TeachingDays {
		f.SetCellValue(sheetName, cell(colName(i+1), row), d.Title())
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// 数据行
	row = 3
	for _, p := range periods {
		f.SetCellValue(sheetName, cell("A", row), p)
		for i, d := range scheduling.TeachingDays {
			text := "-"
			if texts, ok := index[string(d)+"|"+p]; ok {
				text = strings.Join(texts, "\n")
			}
			f.SetCellValue(sheetName, cell(colName(i+1), row), text)
		}
		f.SetCellStyle(sheetName, cell("B", row), cell(lastCol, row), bodyStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s.xlsx", fileSafe(title))
	return buf, filename, nil
}

// cellText 单元格内容；按班级导出时附教师简称，按教师导出时附班级名
func cellText(cs *model.ClassSchedule, byBatch bool) string {
	var parts []string
	if cs.Course != nil {
		parts = append(parts, cs.Course.Code+" "+cs.Course.Name)
	}
	if cs.Classroom != nil {
		parts = append(parts, cs.Classroom.RoomNumber)
	}
	switch {
	case byBatch && cs.Professor != nil:
		who := cs.Professor.Name
		if cs.Professor.ShortName != nil && *cs.Professor.ShortName != "" {
			who = *cs.Professor.ShortName
		}
		parts = append(parts, who)
	case !byBatch && cs.Batch != nil:
		parts = append(parts, cs.Batch.Name)
	}
	return strings.Join(parts, " / ")
}

// ═══════════════════════════════════════════════════════════
// ProfessorCalendar — 教师日历导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ProfessorCalendar(ctx context.Context, professorID string) (*bytes.Buffer, string, error) {
	professor, err := s.repo.User.GetByID(ctx, professorID)
	if err != nil {
		return nil, "", notFoundOr(err, ErrProfessorNotFound)
	}

	schedules, err := s.repo.ClassSchedule.List(ctx, repository.ClassScheduleFilter{ProfessorID: professorID})
	if err != nil {
		s.logger.Error("查询教师课表失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, "", err
	}
	bookings, err := s.repo.Booking.ListByProfessor(ctx, professorID, 0)
	if err != nil {
		s.logger.Error("查询教师预订失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, "", err
	}

	now := s.clock.Now().In(s.loc)
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(professor.Name)
	cal.SetXWRTimezone(s.loc.String())

	// 固定课表：从今天起第一个对应星期开始，每周重复
	for i := range schedules {
		cs := &schedules[i]
		rec, ok := recurringOf(cs)
		if !ok {
			continue
		}
		first := rec.Day.NextOnOrAfter(now)
		evt := cal.AddEvent(cs.ScheduleID + "@campus-connect")
		evt.SetDtStampTime(now)
		evt.SetStartAt(rec.Slot.Start.On(first))
		evt.SetEndAt(rec.Slot.End.On(first))
		evt.AddRrule("FREQ=WEEKLY;BYDAY=" + icsDays[rec.Day])
		evt.SetSummary(scheduleSummary(cs))
		if cs.Classroom != nil {
			evt.SetLocation(cs.Classroom.RoomNumber)
		}
		if cs.Batch != nil {
			evt.SetDescription(cs.Batch.Name)
		}
	}

	// 临时预订：仅 pending / approved
	for i := range bookings {
		b := &bookings[i]
		if !b.BookingStatus().Blocks() {
			continue
		}
		iv, err := b.Interval()
		if err != nil {
			continue
		}
		y, m, d := b.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
		evt := cal.AddEvent(b.BookingID + "@campus-connect")
		evt.SetDtStampTime(now)
		evt.SetStartAt(iv.Start.On(day))
		evt.SetEndAt(iv.End.On(day))
		evt.SetSummary(strings.TrimSpace(b.CourseCode + " " + b.CourseName))
		evt.SetDescription(fmt.Sprintf("%s [%s]", b.Purpose, b.Status))
		if b.Classroom != nil {
			evt.SetLocation(b.Classroom.RoomNumber)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("calendar_%s.ics", fileSafe(professor.Name))
	return buf, filename, nil
}

func scheduleSummary(cs *model.ClassSchedule) string {
	if cs.Course == nil {
		return "Class"
	}
	return cs.Course.Code + " " + cs.Course.Name
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// fileSafe 文件名中只保留字母数字，其余替换为下划线
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}
