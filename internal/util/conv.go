package util

import (
	"strconv"
	"strings"
)

// ParseUint 解析路径/查询中的 ID
func ParseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// SplitCSV 拆分逗号分隔的查询参数，去掉空项
func SplitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
