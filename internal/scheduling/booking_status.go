package scheduling

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition 预订状态不允许该流转
var ErrIllegalTransition = errors.New("预订状态不允许该操作")

// BookingStatus 临时预订状态
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// transitions 允许的状态流转；rejected / cancelled 为终态
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingApproved, BookingRejected, BookingCancelled},
	BookingApproved: {BookingCancelled},
}

// BlockingStatuses 仍占用教室、参与冲突检测的状态
var BlockingStatuses = []BookingStatus{BookingPending, BookingApproved}

// Valid 是否为已知状态
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// Blocks 是否占用教室
func (s BookingStatus) Blocks() bool {
	return s == BookingPending || s == BookingApproved
}

// Terminal 是否为终态
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCancelled
}

// CanTransition 是否允许 s → to
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition 校验 from → to，不允许时返回包装了 ErrIllegalTransition 的错误
func Transition(from, to BookingStatus) (BookingStatus, error) {
	if !from.CanTransition(to) {
		return from, fmt.Errorf("%w: %s → %s", ErrIllegalTransition, from, to)
	}
	return to, nil
}
