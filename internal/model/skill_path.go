package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RoadmapWeek 一周的学习目标
type RoadmapWeek struct {
	Week  int      `json:"week"`
	Goals []string `json:"goals"`
}

// Roadmap AI 生成的学习路线
// swagger:model Roadmap
type Roadmap struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Weeks       []RoadmapWeek `json:"weeks"`
}

// FindWeek 返回指定周，找不到时返回 nil
func (r *Roadmap) FindWeek(week int) *RoadmapWeek {
	for i := range r.Weeks {
		if r.Weeks[i].Week == week {
			return &r.Weeks[i]
		}
	}
	return nil
}

// SkillPath 用户保存的学习路径，Data 保存原始的路线 JSON
// swagger:model SkillPath
type SkillPath struct {
	BaseModel
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Data        string `gorm:"type:text" json:"-"`
	// TotalHoursSpent 由进度记录累加
	TotalHoursSpent int           `gorm:"default:0" json:"total_hours_spent"`
	Tasks           []PlannerTask `gorm:"foreignKey:SkillPathID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SkillPath) TableName() string {
	return "skill_paths"
}

// RawData 解码 Data 字段，保留调用方传入的全部键
func (p *SkillPath) RawData() map[string]interface{} {
	if strings.TrimSpace(p.Data) == "" {
		return nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(p.Data), &data); err != nil {
		return nil
	}
	return data
}

// SafeData 与 RawData 相同，但保证 weeks 字段是一个列表
func (p *SkillPath) SafeData() map[string]interface{} {
	data := p.RawData()
	if data == nil {
		return map[string]interface{}{"weeks": []interface{}{}}
	}
	if _, ok := data["weeks"].([]interface{}); !ok {
		return map[string]interface{}{"weeks": []interface{}{}}
	}
	return data
}

// Roadmap 将 Data 逐周解码为结构化的路线，跳过缺少有效周数的条目，
// 非字符串的目标按 JSON 文本保留
func (p *SkillPath) Roadmap() Roadmap {
	data := p.RawData()
	if data == nil {
		return Roadmap{}
	}
	title, _ := data["title"].(string)
	description, _ := data["description"].(string)
	r := Roadmap{Title: title, Description: description}

	weeks, _ := data["weeks"].([]interface{})
	for _, item := range weeks {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		week, ok := WeekNumber(entry["week"])
		if !ok {
			continue
		}
		r.Weeks = append(r.Weeks, RoadmapWeek{Week: week, Goals: GoalStrings(entry["goals"])})
	}
	return r
}

// WeekNumber 接受整数或数字字符串
func WeekNumber(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// GoalStrings 把解码后的 goals 转成字符串列表；单个字符串视为一项
func GoalStrings(v interface{}) []string {
	switch goals := v.(type) {
	case string:
		return []string{goals}
	case []interface{}:
		out := make([]string, 0, len(goals))
		for _, g := range goals {
			if s, ok := g.(string); ok {
				out = append(out, s)
				continue
			}
			b, _ := json.Marshal(g)
			out = append(out, string(b))
		}
		return out
	}
	return []string{}
}

func (p *SkillPath) SetData(data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	p.Data = string(b)
	return nil
}
