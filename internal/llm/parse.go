package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonFenceRe      = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	objectArrayRe    = regexp.MustCompile(`(?s)(\[\s*\{.*?\}\s*\])`)
	fenceMarkerRe    = regexp.MustCompile("(?m)^```json|```$")
	trailingCommaRe  = regexp.MustCompile(`,\s*([}\]])`)
	adjacentObjectRe = regexp.MustCompile(`}(\s*){`)
	adjacentArrayRe  = regexp.MustCompile(`]\s*\[`)
	doubleCommaRe    = regexp.MustCompile(`,\s*,`)
	arrayRe          = regexp.MustCompile(`\[[^\]]*\]`)
	flatObjectRe     = regexp.MustCompile(`\{[^{}]*\}`)
)

// ExtractJSON 去掉模型回复外层的 Markdown 代码块
func ExtractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// ParseJSON 解析模型回复中的 JSON 到 v
func ParseJSON(text string, v interface{}) error {
	return json.Unmarshal([]byte(ExtractJSON(text)), v)
}

// ExtractObjectArray 优先取 ```json 代码块，其次取第一个 [{...}] 片段
func ExtractObjectArray(text string) string {
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := objectArrayRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// RepairQuotesAndCommas 修正单引号和尾随逗号这两类最常见的问题
func RepairQuotesAndCommas(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// CleanJSONString 尽量把不规范的模型输出整理成可解析的 JSON
func CleanJSONString(s string) string {
	s = strings.TrimSpace(fenceMarkerRe.ReplaceAllString(s, ""))
	s = strings.ReplaceAll(s, "'", `"`)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = adjacentObjectRe.ReplaceAllString(s, "},$1{")
	s = adjacentArrayRe.ReplaceAllString(s, "], [")
	s = doubleCommaRe.ReplaceAllString(s, ",")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return s
}

// TruncateToLastComplete 截断到最后一个 } 或 ]，第二个返回值表示是否发生了截断
func TruncateToLastComplete(s string) (string, bool) {
	last := strings.LastIndexAny(s, "}]")
	if last == -1 {
		return s, false
	}
	return s[:last+1], last != len(s)-1
}

// KeepFlatObjects 每个数组只保留其中完整的扁平对象
func KeepFlatObjects(s string) string {
	return arrayRe.ReplaceAllStringFunc(s, func(arr string) string {
		objs := flatObjectRe.FindAllString(arr, -1)
		return "[" + strings.Join(objs, ",") + "]"
	})
}

// RecoverArrays 整体解析失败时，逐个键提取可解析的数组
func RecoverArrays(s string, keys []string) map[string][]map[string]interface{} {
	out := make(map[string][]map[string]interface{}, len(keys))
	for _, key := range keys {
		re := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*(\[[^\]]*\])`)
		items := []map[string]interface{}{}
		if m := re.FindStringSubmatch(s); m != nil {
			if err := json.Unmarshal([]byte(m[1]), &items); err != nil {
				items = []map[string]interface{}{}
			}
		}
		out[key] = items
	}
	return out
}
