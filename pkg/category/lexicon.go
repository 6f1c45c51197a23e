package category

// Definition is the static configuration for a single category: its display
// name, description, default keyword seed list, and relative weight used to
// apportion Trust-Debt units across the space (step 2, §4.2).
type Definition struct {
	ID          Category
	Name        string
	Description string
	Keywords    []string
	Weight      float64
	Color       string
}

// DefaultLexicon ships a concrete, overridable default keyword seed list per
// category so the pipeline is runnable without external NLP configuration
// (SPEC_FULL.md §C). Operators override via config.Categories.
var DefaultLexicon = buildDefaultLexicon()

func buildDefaultLexicon() map[Category]Definition {
	defs := []Definition{
		{Security, "Security", "Protection against unauthorized access, vulnerabilities, and attacks.",
			[]string{"auth", "vulnerability", "exploit", "encryption", "sanitize", "csrf", "xss", "injection", "secret", "token"}, 1.2, "#e74c3c"},
		{Reliability, "Reliability", "System stability, uptime, and resilience to failure.",
			[]string{"retry", "failover", "timeout", "circuit breaker", "backoff", "resilience", "crash", "outage", "uptime"}, 1.1, "#2ecc71"},
		{DataIntegrity, "Data Integrity", "Correctness and consistency of stored and transmitted data.",
			[]string{"checksum", "validation", "consistency", "transaction", "migration", "schema", "corruption", "constraint"}, 1.1, "#3498db"},
		{ProcessAdherence, "Process Adherence", "Following declared workflows, review gates, and change procedures.",
			[]string{"review", "approval", "workflow", "checklist", "gate", "sign-off", "procedure", "runbook"}, 0.9, "#9b59b6"},
		{CodeQuality, "Code Quality", "Readability, maintainability, and structural soundness of source.",
			[]string{"refactor", "lint", "complexity", "duplication", "naming", "readability", "tech debt", "code smell"}, 1.0, "#1abc9c"},
		{Testing, "Testing", "Automated coverage, test design, and verification practices.",
			[]string{"test", "coverage", "assertion", "mock", "fixture", "regression", "unit test", "integration test"}, 1.0, "#f39c12"},
		{Documentation, "Documentation", "Written explanation of intent, usage, and design decisions.",
			[]string{"readme", "docstring", "comment", "changelog", "guide", "spec", "documentation", "tutorial"}, 0.8, "#34495e"},
		{Communication, "Communication", "Clarity and timeliness of information exchange between collaborators.",
			[]string{"standup", "notify", "announce", "status update", "escalate", "message", "thread"}, 0.8, "#16a085"},
		{TimeManagement, "Time Management", "Estimation accuracy, scheduling, and deadline discipline.",
			[]string{"deadline", "eta", "schedule", "milestone", "sprint", "overdue", "timeline"}, 0.8, "#d35400"},
		{ResourceEfficiency, "Resource Efficiency", "Judicious use of compute, memory, time, and money.",
			[]string{"optimize", "cache", "throttle", "cost", "latency", "memory leak", "allocation", "efficiency"}, 0.9, "#8e44ad"},
		{RiskAssessment, "Risk Assessment", "Identification and mitigation of foreseeable failure modes.",
			[]string{"risk", "mitigation", "blast radius", "rollback", "contingency", "impact analysis"}, 1.0, "#c0392b"},
		{Compliance, "Compliance", "Adherence to regulatory, licensing, and policy requirements.",
			[]string{"license", "gdpr", "audit", "policy", "regulation", "compliance", "retention"}, 0.9, "#2c3e50"},
		{Innovation, "Innovation", "Novel approaches and meaningful improvement over prior art.",
			[]string{"prototype", "experiment", "novel", "rfc", "proposal", "spike"}, 0.7, "#27ae60"},
		{Collaboration, "Collaboration", "Effective joint work across contributors and teams.",
			[]string{"pair", "co-author", "cross-team", "handoff", "collaborate", "contribution"}, 0.8, "#2980b9"},
		{Accountability, "Accountability", "Clear ownership and follow-through on commitments.",
			[]string{"owner", "accountable", "responsible", "commitment", "follow-up", "assigned"}, 0.9, "#7f8c8d"},
		{Transparency, "Transparency", "Openness about decisions, tradeoffs, and known limitations.",
			[]string{"disclose", "tradeoff", "known issue", "limitation", "rationale", "transparent"}, 0.8, "#f1c40f"},
		{Adaptability, "Adaptability", "Responsiveness to changing requirements and feedback.",
			[]string{"adapt", "pivot", "iterate", "feedback", "revise", "flexible"}, 0.7, "#e67e22"},
		{DomainExpertise, "Domain Expertise", "Depth of subject-matter knowledge applied to the work.",
			[]string{"domain", "expertise", "best practice", "idiom", "convention", "specialist"}, 0.8, "#95a5a6"},
		{UserFocus, "User Focus", "Orientation toward end-user needs and experience.",
			[]string{"user", "ux", "usability", "accessibility", "customer", "feedback loop"}, 1.0, "#e84393"},
		{EthicalAlignment, "Ethical Alignment", "Consistency with stated values and harm-avoidance commitments.",
			[]string{"consent", "fairness", "bias", "harm", "ethic", "privacy", "alignment"}, 0.9, "#6c5ce7"},
	}

	table := make(map[Category]Definition, len(defs))
	for _, d := range defs {
		table[d.ID] = d
	}
	return table
}
