package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConflictError_NamesRoom(t *testing.T) {
	err := NewConflict("L101", "2025-03-10 10:00-11:00", "b-1")
	if !strings.Contains(err.Error(), "L101") {
		t.Errorf("冲突信息应包含教室号，实际: %s", err.Error())
	}
	if errors.Is(err, ErrIntegrityRace) {
		t.Error("普通冲突不应识别为竞争冲突")
	}
}

func TestRaceConflict_Unwrap(t *testing.T) {
	var err error = NewRaceConflict("L101", "2025-03-10 10:00-11:00")
	wrapped := fmt.Errorf("创建预订: %w", err)
	if !errors.Is(wrapped, ErrIntegrityRace) {
		t.Error("竞争冲突应可通过 errors.Is 识别")
	}
	if !IsConflict(wrapped) {
		t.Error("竞争冲突应同时是 ConflictError")
	}
}

func TestKindHelpers(t *testing.T) {
	if !IsValidation(NewValidation("date", "不能预订过去的日期")) {
		t.Error("IsValidation 判定失败")
	}
	nf := NewNotFound("教室", "L999")
	if !IsNotFound(nf) || !strings.Contains(nf.Error(), "L999") {
		t.Errorf("NotFound 判定或信息错误: %v", nf)
	}
	if IsConflict(nf) || IsValidation(nf) {
		t.Error("错误类型不应混淆")
	}
}
