package model

import (
	"fmt"
	"strings"
)

// BranchNames 专业代码 → 全称
var BranchNames = map[string]string{
	"cs": "Computer Science",
	"ec": "Electronics & Communication",
	"me": "Mechanical Engineering",
	"sm": "Smart Manufacturing",
}

// Sections 可选班号
var Sections = []string{"A", "B", "C", "D"}

// Batch 班级表 — 对应 batches，(year, branch, section) 唯一
type Batch struct {
	BatchID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"batch_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	Year    int    `gorm:"not null"                                       json:"year"`
	Branch  string `gorm:"type:varchar(10);not null"                      json:"branch"`
	Section string `gorm:"type:varchar(2);not null"                       json:"section"`
	BaseModel
}

// TableName 指定表名
func (Batch) TableName() string { return "batches" }

// DisplayName 生成展示名，如 "COMPUTER SCIENCE - Section A (Batch 2025)"
func (b *Batch) DisplayName() string {
	branch, ok := BranchNames[b.Branch]
	if !ok {
		branch = b.Branch
	}
	return fmt.Sprintf("%s - Section %s (Batch %d)", strings.ToUpper(branch), b.Section, b.Year)
}

// EnsureName 名称为空时自动生成
func (b *Batch) EnsureName() {
	if strings.TrimSpace(b.Name) == "" {
		b.Name = b.DisplayName()
	}
}

// Key 自然键 "2025/cs/A"，用于种子数据引用
func (b *Batch) Key() string {
	return fmt.Sprintf("%d/%s/%s", b.Year, b.Branch, b.Section)
}
