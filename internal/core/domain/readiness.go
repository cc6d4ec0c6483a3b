package domain

// BackendStatus describes what the AI backends report before an analysis.
type BackendStatus struct {
	EmbeddingReachable bool     `json:"embedding_reachable"`
	EmbeddingModel     string   `json:"embedding_model"`
	EmbeddingModelOK   bool     `json:"embedding_model_ok"`
	LLMConfigured      bool     `json:"llm_configured"`
	LLMReachable       bool     `json:"llm_reachable"`
	LLMModel           string   `json:"llm_model,omitempty"`
	LLMModelOK         bool     `json:"llm_model_ok"`
	AvailableModels    []string `json:"available_models"`
}

// CanAnalyze reports whether an analysis can run.
func (s BackendStatus) CanAnalyze() bool {
	return s.EmbeddingReachable && s.EmbeddingModelOK
}

// CanSuggest reports whether suggestions can be generated.
func (s BackendStatus) CanSuggest() bool {
	return s.LLMConfigured && s.LLMReachable && s.LLMModelOK
}
