package prompt

// init registers the analyst-node system prompts (spec §4.3) the same way
// the teacher's extraction/debate/qualitative prompts are registered: one
// PromptTemplate per role, looked up through the shared Registry rather
// than inlined as string literals in the analyst package.
func init() {
	roles := []struct {
		id, name, system string
	}{
		{
			id:   "analyst.fundamental",
			name: "基本面分析师",
			system: "你是一位基本面分析师，负责评估公司的盈利能力、偿债能力与成长潜力。" +
				"依据提供的财务数据摘要给出客观、数据驱动的判断，避免空泛措辞。",
		},
		{
			id:   "analyst.technical",
			name: "技术面分析师",
			system: "你是一位技术面分析师，负责评估价格趋势、动量、支撑阻力与成交量形态。" +
				"依据提供的K线与因子数据摘要给出客观判断。",
		},
		{
			id:   "analyst.fund",
			name: "资金面分析师",
			system: "你是一位资金面分析师，负责评估主力资金、机构资金与散户资金的流向与力量对比。" +
				"依据提供的资金流摘要给出客观判断。",
		},
		{
			id:   "analyst.news",
			name: "新闻分析师",
			system: "你是一位新闻分析师，负责评估公司相关新闻的情绪倾向、事件影响与市场关注度。" +
				"依据提供的新闻摘要给出客观判断。",
		},
		{
			id:   "analyst.sentiment",
			name: "情绪面分析师",
			system: "你是一位情绪面分析师，负责综合新闻舆情与基本面信息评估市场情绪、投资者情绪与机构观点。" +
				"依据提供的情绪输入给出客观判断。",
		},
		{
			id:   "analyst.supervisor",
			name: "总决策分析师",
			system: "你是一位总决策投资分析师，负责在整合多方信息后，给出短期、中期、长期全周期的投资预测与建议。" +
				"请融合各面结论与评分，提炼一致观点与分歧，并识别关键催化与风险点。",
		},
		{
			id:   "analyst.debate_bull",
			name: "多头辩论者",
			system: "你是一位多头辩论者，负责从看多角度整合各分析师报告，提出核心论据并对看空观点进行反驳。",
		},
		{
			id:   "analyst.debate_bear",
			name: "空头辩论者",
			system: "你是一位空头辩论者，负责从看空角度整合各分析师报告，提出核心论据并对看多观点进行反驳。",
		},
		{
			id:   "analyst.debate_synthesis",
			name: "辩论分析师",
			system: "你是一位辩论分析师，负责裁决多头与空头的辩论，给出最终的综合立场与陈述。",
		},
	}

	r := Get()
	for _, role := range roles {
		_ = r.Register(&PromptTemplate{
			ID:           role.id,
			Name:         role.name,
			Category:     "analyst",
			SystemPrompt: role.system,
		})
	}
}

// AnalystSystemPrompt is a thin convenience wrapper over GetSystemPrompt
// that returns an empty string if the registry entry is somehow missing
// (defensive only; init() above always registers these ids).
func AnalystSystemPrompt(id string) string {
	s, err := Get().GetSystemPrompt(id)
	if err != nil {
		return ""
	}
	return s
}
