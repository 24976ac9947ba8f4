package analyst

import (
	"fmt"
	"strings"
)

// analystReportFormat is appended to every perspective's user prompt: the
// fixed five-field AnalystReport envelope (spec §3/§4.3), transcribed from
// the reference implementation's per-role JSON format blocks (e.g.
// supervisor_prompts.py's SUPERVISOR_PROMPT fenced-JSON footer).
func analystReportFormat(analystName string, scoreKeys []string) string {
	var keys strings.Builder
	for i, k := range scoreKeys {
		if i > 0 {
			keys.WriteString(", ")
		}
		fmt.Fprintf(&keys, `"%s": 0-5`, k)
	}
	return fmt.Sprintf(`
请严格按以下JSON结构输出，不要添加额外说明文字：
`+"```json"+`
{
  "analyst_name": "%s",
  "viewpoint": "看多 / 看空 / 中性",
  "reason": "核心判断依据，100字以内",
  "scores": {%s},
  "detailed_analysis": "详细分析，200-400字"
}
`+"```"+`
`, analystName, keys.String())
}

// buildPerspectivePrompt renders the shared skeleton every perspective
// node feeds its LLM call: symbol, analysis period, role description and
// the assembled per-interface summaries (spec §4.3 step 4).
func buildPerspectivePrompt(symbol, period, roleDescription, dataLabel, data string, scoreKeys []string, analystName string) string {
	return fmt.Sprintf(
		"股票代码: %s\n分析时间段: %s\n角色: %s\n\n%s:\n%s\n%s",
		symbol, period, roleDescription, dataLabel, data, analystReportFormat(analystName, scoreKeys),
	)
}

// supervisorReportFormat mirrors analystReportFormat for the Supervisor's
// distinct three-horizon shape (transcribed from supervisor_prompts.py).
const supervisorReportFormat = `
请严格按以下JSON结构输出，不要添加额外说明文字：
` + "```json" + `
{
  "analyst_name": "总决策分析师",
  "summary": "融合所有分析的总体总结，150-250字",
  "forecast": {
    "short_term": {"bias": "看多 / 看空 / 中性", "prediction": "...", "suggestion": "...", "reason": "...", "risks": ["..."]},
    "mid_term":   {"bias": "看多 / 看空 / 中性", "prediction": "...", "suggestion": "...", "reason": "...", "risks": ["..."]},
    "long_term":  {"bias": "看多 / 看空 / 中性", "prediction": "...", "suggestion": "...", "reason": "...", "risks": ["..."]}
  }
}
` + "```"

// debateReportFormat mirrors analystReportFormat for the bull/bear/
// synthesis debate pass (supplemented feature, SPEC_FULL.md §3).
const debateReportFormat = `
请严格按以下JSON结构输出，不要添加额外说明文字：
` + "```json" + `
{
  "analyst_name": "...",
  "viewpoint": "看多 / 看空 / 中性",
  "core_arguments": ["论据1", "论据2"],
  "rebuttals": ["反驳1", "反驳2"],
  "final_statement": "最终陈述"
}
` + "```"
