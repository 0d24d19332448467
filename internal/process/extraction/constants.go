package extraction

// Limits
const (
	maxTranscriptSample = 20000
	maxDescription      = 140
	truncatedKeep       = 137
	ellipsis            = "..."
	minSentenceFragment = 10
	minHeuristicLength  = 6
	maxHeuristicTasks   = 10
	extractTemperature  = 0.1
	confidencePrecision = 100
	confidenceMin       = 0.0
	confidenceMax       = 1.0
)

// Prompts
const (
	extractionSystemPrompt = `You are an expert at analyzing meeting transcripts and extracting clear, actionable tasks.

Requirements:
- Extract only explicit action items or tasks mentioned in the transcript. Do NOT hallucinate.
- Each task must be a single concise one-line description (preferably under 140 characters).
- Identify responsible person if mentioned (owner). If not clearly stated, set owner to null.
- Identify a deadline if mentioned and normalize to YYYY-MM-DD; otherwise null.
- Assign priority: one of "low"|"medium"|"high"|"critical". Default to "medium" when unclear.
- Provide a confidence score between 0.0 and 1.0.

Return ONLY valid JSON in this exact format (no extra text):
{
  "tasks": [
    {
      "description": "...",
      "owner": "..." or null,
      "deadline": "YYYY-MM-DD" or null,
      "priority": "low|medium|high|critical",
      "confidence": 0.0-1.0
    }
  ]
}

If there are no action items, return {"tasks": []}. Be conservative and prefer omitting unclear items.`

	extractionUserPromptFmt = "Analyze the following meeting transcript and extract all explicit action items. " +
		"Return only JSON as instructed in the system prompt.\n\nTranscript:\n%s"
)

// Log keys and messages
const (
	logKeyOutcome     = "outcome"
	logKeyTaskCount   = "task_count"
	logKeySampleChars = "sample_chars"
	logKeyRaw         = "raw"

	logMsgModelFailed     = "model extraction failed, using heuristic extractor"
	logMsgModelMissing    = "no model configured, using heuristic extractor"
	logMsgParsed          = "parsed model extraction"
	logMsgRecoveryFailed  = "model output was not valid task JSON"
	logMsgHeuristicResult = "heuristic extraction finished"
)
