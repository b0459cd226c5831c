package rules

import "strings"

func alt(words ...string) string {
	return "(?:" + strings.Join(words, "|") + ")"
}

var (
	actionVerbs = alt(
		"add", "build", "create", "implement", "ship", "fix", "update", "change", "move", "remove",
		"support", "make", "set up", "setup", "integrate", "launch", "deploy", "migrate", "refactor",
		"investigate", "write", "draft", "design", "define", "replace", "rename", "enable", "disable",
		"deprecate", "extend", "split", "merge", "automate", "document", "publish", "prepare",
		"finalize", "expose", "roll ?back", "pull", "delay", "push", "drop", "cut", "test",
		"prioriti[sz]e", "deprioriti[sz]e", "track", "introduce", "redesign", "rework", "clean up",
		"upgrade", "consolidate", "standardi[sz]e", "allow", "block", "require", "instrument",
		"monitor", "audit", "optimi[sz]e", "reduce", "increase", "hire", "start",
		"stop", "kill", "sunset", "descope", "postpone", "defer", "reschedule", "cancel", "adopt",
	)

	months = alt(
		"jan(?:uary)?", "feb(?:ruary)?", "mar(?:ch)?", "apr(?:il)?", "may", "june?", "july?",
		"aug(?:ust)?", "sep(?:t(?:ember)?)?", "oct(?:ober)?", "nov(?:ember)?", "dec(?:ember)?",
	)
	weekdays = `(?:mon|tues|wednes|thurs|fri|satur|sun)day`
	ordinal  = `\d{1,2}(?:st|nd|rd|th)`

	hedgeStem = alt(
		"we should", "we need to", "we must", "we ought to", "let's", "let us", "we have to",
		"we'll need to", "we will need to", "we could", "should we", "maybe we", "we might",
	)
	requestStem = alt(
		`(?:can|could|would) (?:we|you|someone|the team)(?: please)?`, "please", "need to", "needs to",
		"must", `request(?:ing)? (?:that )?we`,
	)
	actors = alt(
		"users?", "customers?", "clients?", "buyers?", "admins?", "partners?", "prospects?",
		"stakeholders?", "sales", "support", "people", "folks", "teachers?", "students?",
		"learners?", "merchants?", "developers?", "engineers?", "parents?", "accounts?",
	)
	desireVerbs = alt(
		"want", "wants", "wanted", "need", "needs", "asked for", "ask for", "asking for",
		"requested", "request", "requesting", "would love", "love", "expect", "expects",
		"keep asking for", "are asking for", "have asked for", "have requested",
	)
)

// Positive holds the actionable-signal rules applied to a unit's content
// after list markers are stripped.
var Positive = NewSet("positive",
	Def{"strong_request", 1.0, `(?i)\b` + requestStem + `\s+(?:also\s+)?` + actionVerbs + `\b`},
	Def{"imperative", 0.9, `(?i)^(?:please\s+)?` + actionVerbs + `\b`},
	Def{"hedged_directive", 0.9, `(?i)\b` + hedgeStem + `\b`},
	Def{"change_operator", 0.8, `(?i)\b(?:mov(?:e|ed|ing)|delay(?:s|ed|ing)?|defer(?:red|ring)?|postpon(?:e|ed|ing)|push(?:ed|ing)? (?:back|out)|slip(?:s|ped|ping)?|pivot(?:ed|ing)?|descop(?:e|ed|ing)|re-?prioriti[sz](?:e|ed|ing)|deprioriti[sz](?:e|ed|ing)|shift(?:ed|ing)?|re-?schedul(?:e|ed|ing)|cancel(?:l?ed|l?ing)?|pull(?:ed|ing)? in|brought forward|replac(?:e|ed|ing)|cut(?:ting)? scope|de-?scop(?:e|ed))\b`},
	Def{"feature_demand", 0.7, `(?i)\b` + actors + `\s+(?:really\s+|still\s+|keep\s+|have\s+been\s+|are\s+|would\s+)?` + desireVerbs + `\b`},
	Def{"status_marker", 0.7, `(?i)\b(?:on track|off track|at risk|blocked|blocker|in progress|done|completed|shipped|launched|wip|behind schedule|ahead of schedule|green|yellow|red|status)\b`},
)

// TaskSyntax matches task notation on the raw line.
var TaskSyntax = NewSet("task_syntax",
	Def{"checkbox", 0.8, `^\s*(?:[-*+]\s*)?\[[ xX]?\]`},
	Def{"task_label", 0.8, `(?i)^\s*(?:[-*+]\s*)?(?:todo|to-do|action(?: item)?|ai|next step)\s*:`},
)

// Negation forces a unit's actionable score to zero.
var Negation = NewSet("negation",
	Def{"negated_action", 1, `(?i)\b(?:don't|do not|won't|will not|not going to|no need to|shouldn't|should not|never|not)\s+(?:\w+\s+){0,2}?` + actionVerbs + `\b`},
)

// Research marks exploratory work.
var Research = NewSet("research",
	Def{"research", 0.5, `(?i)\b(?:research|investigate|explore|look into|spike|evaluate|benchmark|user interviews?|survey|prototype|discovery)\b`},
)

// Calendar, Communication and Micro are the out-of-scope families.
var (
	Calendar = NewSet("calendar",
		Def{"calendar_noun", 0.6, `(?i)\b(?:meetings?|calendar|invites?|standups?|stand-ups?|1:1s?|one-on-ones?|agenda|off-?sites?|retros?|all-hands|kickoff call)\b`},
		Def{"schedule_session", 0.6, `(?i)\b(?:schedule|book|set up)\s+(?:a|an|the)\s+(?:[\w-]+\s+)?(?:call|meeting|sync|session|review|demo)\b`},
		Def{"weekday_time", 0.6, `(?i)\b` + weekdays + `\s+at\s+\d`},
	)
	Communication = NewSet("communication",
		Def{"channel", 0.6, `(?i)\b(?:email|e-mail|slack|ping|reach out|follow up with|reply to|loop in|cc|circulate)\b`},
		Def{"send_note", 0.6, `(?i)\bsend\s+(?:a|an|the|out)\s+(?:\w+\s+)?(?:note|message|update|recap|summary|email|reminder)\b`},
		Def{"share_doc", 0.6, `(?i)\bshare\s+(?:the|this|our)\s+(?:deck|doc|notes|recap|slides)\b`},
	)
	Micro = NewSet("micro_tasks",
		Def{"admin_chore", 0.4, `(?i)\b(?:expenses?|reimburse(?:ment)?|typos?|book (?:a|the) room|order (?:lunch|food|snacks)|password reset|badge access|parking|timesheets?)\b`},
	)
)

// ConcreteDelta matches explicit schedule or scope deltas.
var ConcreteDelta = NewSet("concrete_delta",
	Def{"duration", 1, `(?i)\b\d+(?:\.\d+)?[\s-]*(?:business days?|days?|weeks?|months?|quarters?|sprints?|hours?)\b`},
	Def{"ordinal_arrow", 1, `(?i)\b` + ordinal + `?\s*(?:→|->|=>)\s*(?:the\s+)?\d{1,2}(?:st|nd|rd|th)?\b`},
	Def{"ordinal_from_to", 1, `(?i)\bfrom\s+(?:the\s+)?` + ordinal + `\s+to\s+(?:the\s+)?` + ordinal + `\b`},
	Def{"month_shift", 1, `(?i)\b` + months + `\b[^.;\n]{0,20}?\s*(?:\bto\b|→|->|\binto\b|\buntil\b)\s*` + months + `\b`},
	Def{"delayed_to", 1, `(?i)\b(?:delay(?:ed)?|push(?:ed)?|mov(?:e|ed)|slip(?:ped)?|shift(?:ed)?|postpon(?:e|ed)|defer(?:red)?)\s+(?:out\s+|back\s+)?(?:to|into|until)\s+(?:Q[1-4]|H[12]|next (?:week|month|quarter|sprint|year)|` + months + `)\b`},
)

// ScheduleEvent matches launch-event and date-range vocabulary.
var ScheduleEvent = NewSet("schedule_event",
	Def{"launch_event", 1, `(?i)\b(?:launch(?:es|ed|ing)?|deploy(?:s|ed|ment)?|eta|deadline|go-live|release date|cutover|code freeze|ship date)\b`},
	Def{"date_range", 1, `(?i)\b` + months + `\s+\d{1,2}\s*[-–]\s*\d{1,2}\b`},
)

// RiskVerb and DeadlineRef combine into a candidate-level plan signal.
var (
	RiskVerb = NewSet("risk_verb",
		Def{"risk_verb", 1, `(?i)\b(?:pull(?:ed)?|remov(?:e|ed)|delay(?:ed)?|drop(?:ped)?|cut|postpon(?:e|ed)|push(?:ed)?|slip(?:ped)?|defer(?:red)?|hold|paus(?:e|ed)|descop(?:e|ed)|cancel(?:l?ed)?)\b`},
	)
	DeadlineRef = NewSet("deadline_ref",
		Def{"by_ordinal", 1, `(?i)\b(?:by|before|until)\s+(?:the\s+)?` + ordinal + `\b`},
		Def{"by_period", 1, `(?i)\bby\s+(?:end of (?:the\s+)?(?:day|week|month|quarter|sprint)|eod|eow|eom|eoq|` + weekdays + `|` + months + `\s+\d{1,2}|Q[1-4])\b`},
	)
)

// StrategyHeading marks headings that describe a strategy or framework.
var StrategyHeading = NewSet("strategy_heading",
	Def{"strategy_keyword", 1, `(?i)\b(?:strateg(?:y|ies|ic)|approach|framework|systems?|prioriti[sz]ation|automation|playbook|vision|rubric|criteria|methodology|heuristics?|principles)\b`},
)

// OperationalHeading marks headings that never seed a structural idea.
var OperationalHeading = NewSet("operational_heading",
	Def{"operational", 1, `(?i)\b(?:attendees|agenda|logistics|action items?|next steps|notes|status|updates?|recap|announcements|admin|housekeeping|schedule|calendar|parking lot|misc|follow[- ]?ups?|decisions|minutes|questions)\b`},
)

// ExplicitAsk matches a directive verb in directive position.
var ExplicitAsk = NewSet("explicit_ask",
	Def{"leading_directive", 1, `(?i)^(?:please\s+)?` + actionVerbs + `\b`},
	Def{"stem_directive", 1, `(?i)\b(?:` + hedgeStem + `|` + requestStem + `|should|\w+ team to)\s+(?:\w+\s+)?` + actionVerbs + `\b`},
)

// FeatureDemand is the actor plus desire-verb pattern. Group 1 is the actor.
var FeatureDemand = NewSet("feature_demand",
	Def{"actor_desire", 0.65, `(?i)\b(` + actors + `)\s+(?:really\s+|still\s+|keep\s+|have\s+been\s+|are\s+|would\s+)?` + desireVerbs + `\s+`},
)

// DemandAmplifier raises B-signal confidence.
var DemandAmplifier = NewSet("demand_amplifier",
	Def{"amplifier", 0.1, `(?i)\b(?:really|urgently|urgent|asap|keep asking|repeatedly|many|most|every|all|top request|blocker|blocking|churn(?:ing|ed)?|critical|several)\b`},
)

// ProcessNoise matches ownership, sign-off and handover chatter.
var ProcessNoise = NewSet("process_noise",
	Def{"unclear_owner", 1, `(?i)\bunclear\s+who\b`},
	Def{"who_owns", 1, `(?i)\bwho\s+(?:owns|is responsible|will own|is accountable|is driving|is on point)\b`},
	Def{"sign_off", 1, `(?i)\bsign-?offs?\b`},
	Def{"handover", 1, `(?i)\bhand-?(?:over|off)s?\b`},
	Def{"ownership_tbd", 1, `(?i)\bownership\s+(?:is\s+)?(?:unclear|tbd|undecided|open)\b`},
	Def{"raci", 1, `\bRACI\b`},
)

// ProcessAllow exempts explicit ownership assignments from ProcessNoise.
var ProcessAllow = NewSet("process_allow",
	Def{"owner_field", 1, `(?i)^\s*(?:[-*+]\s*)?owner\s*:\s*\S+`},
	Def{"team_to_verb", 1, `\b[A-Z][\w&-]+(?:\s+(?:team|squad|[A-Z][\w&-]+))?\s+to\s+(?i:` + actionVerbs + `)\b`},
)

// RiskStatus selects the Risk: title prefix for project updates.
var RiskStatus = NewSet("risk_status",
	Def{"risk", 1, `(?i)\b(?:at risk|blocked|blocker|risks?|risky|jeopardy)\b`},
)

// BugReport selects the Bug: title prefix for ideas.
var BugReport = NewSet("bug_report",
	Def{"bug", 1, `(?i)\b(?:bugs?|crash(?:es|ed|ing)?|broken|regressions?|errors?|fails?|failing|outage)\b`},
)

// Conditional matches leading conditional clauses. Group 1 is the main clause.
var Conditional = NewSet("conditional",
	Def{"if_clause", 1, `(?i)^(?:if|unless|when|once|assuming)\b[^,]*,\s*(.+)$`},
)

// Hedge matches leading hedges stripped from titles.
var Hedge = NewSet("hedge",
	Def{"leading_hedge", 1, `(?i)^(?:i think\s+|maybe\s+|so\s+|and\s+|also\s+)*(?:` + hedgeStem + `|` + requestStem + `|we will|we'll)\s+(?:also\s+|probably\s+|really\s+)?`},
	Def{"task_label", 1, `(?i)^(?:todo|to-do|action(?: item)?|ai|next step)\s*:\s*`},
)

// TitleCut marks where explanatory tails start.
var TitleCut = NewSet("title_cut",
	Def{"causal", 1, `(?i)\s+(?:due to|because|since|so that|as a result of|in order to)\s+`},
)

// Feature rules for section structural features.
var (
	DateRef    = NewSet("date", Def{"date", 1, `(?i)\b(?:` + months + `\s+\d{1,2}(?:st|nd|rd|th)?|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}(?:/\d{2,4})?|` + ordinal + `|` + weekdays + `)\b`})
	MetricRef  = NewSet("metric", Def{"metric", 1, `(?i)(?:\b\d+(?:\.\d+)?\s*(?:%|percent|ms|x|k|m|users|customers)\b|\d+(?:\.\d+)?%)`})
	QuarterRef = NewSet("quarter", Def{"quarter", 1, `(?i)\b(?:Q[1-4]|H[12])(?:\s*'?\d{2,4})?\b`})
	VersionRef = NewSet("version", Def{"version", 1, `(?i)\bv?\d+\.\d+(?:\.\d+)?\b|\bv\d+\b`})
	LaunchRef  = NewSet("launch", Def{"launch", 1, `(?i)\b(?:launch(?:es|ed|ing)?|release|rollout|roll-out|go-live|GA|beta)\b`})
	OwnerRef   = NewSet("owner", Def{"owner", 1, `(?i)\bowner\s*:\s*([A-Z][\w-]*)`})
)

// Stopwords are dropped from content-word comparisons.
var Stopwords = vocab(
	"a", "an", "the", "and", "or", "but", "if", "of", "to", "in", "on", "for", "with", "at", "by",
	"from", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that",
	"these", "those", "we", "our", "us", "you", "your", "they", "their", "them", "he", "she", "i",
	"me", "my", "so", "do", "does", "did", "have", "has", "had", "will", "would", "should", "could",
	"can", "may", "might", "must", "not", "no", "yes", "into", "onto", "than", "then", "there",
	"here", "about", "after", "before", "up", "down", "out", "over", "also", "just", "very", "all",
	"any", "some", "more", "most", "such", "what", "which", "who", "when", "where", "how", "why",
	"let's", "we'll", "can't", "won't", "don't", "per", "via", "etc",
)

// GenericVocabulary is low-information business language.
var GenericVocabulary = vocab(
	"align", "alignment", "aligned", "synergy", "synergies", "leverage", "discuss", "discussed",
	"discussion", "sync", "syncs", "touch", "base", "circle", "back", "update", "updates", "improve",
	"improvement", "improvements", "process", "processes", "stakeholder", "stakeholders", "optimize",
	"streamline", "initiative", "initiatives", "thing", "things", "stuff", "item", "items",
	"general", "various", "overall", "better", "ensure", "focus", "priorities", "priority", "plan",
	"plans", "planning", "progress", "next", "steps", "follow", "followup", "bandwidth",
	"visibility", "cadence", "team", "teams", "work", "working", "effort", "efforts", "topic",
	"topics", "issue", "issues", "matter", "matters", "point", "points", "continue", "ongoing",
	"review", "check", "look", "think", "consider", "good", "great", "nice", "important", "key",
	"forward", "going", "identified", "idea", "ideas", "new", "stuff", "approach", "opportunity",
	"opportunities", "value", "impact", "holistic", "robust", "scalable", "strategic", "drive",
	"deliver", "execution", "roadmap", "goals", "goal", "objectives", "outcomes", "they", "them",
	"this", "that", "these", "those", "it", "we",
)

// Pronouns make a title vague when nothing else remains.
var Pronouns = vocab("it", "this", "that", "these", "those", "they", "them", "we", "us", "he", "she", "something", "stuff", "things", "thing")

// DomainNouns are concrete product and engineering artifacts.
var DomainNouns = vocab(
	"api", "apis", "endpoint", "endpoints", "dashboard", "dashboards", "module", "modules",
	"feature", "features", "page", "pages", "screen", "screens", "button", "command", "commands",
	"export", "exports", "import", "report", "reports", "reporting", "integration", "integrations",
	"pipeline", "service", "services", "layer", "cache", "caching", "flow", "template", "templates",
	"product", "release", "sdk", "cli", "webhook", "webhooks", "notification", "notifications",
	"setting", "settings", "toggle", "search", "filter", "filters", "view", "widget", "form",
	"workflow", "workflows", "job", "jobs", "script", "tests", "docs", "documentation",
	"onboarding", "checkout", "leaderboard", "badge", "badges", "alert", "alerts", "log", "logs",
	"audit", "database", "db", "schema", "index", "queue", "migration", "infra", "infrastructure",
	"server", "backend", "frontend", "app", "android", "ios", "mobile", "web", "billing",
	"pricing", "payment", "payments", "invoice", "invoices", "subscription", "subscriptions",
	"account", "accounts", "login", "auth", "sso", "permission", "permissions", "role", "roles",
	"launch", "beta", "rollout", "deploy", "deployment", "latency", "performance", "bug", "crash",
	"ui", "ux", "analytics", "metric", "metrics", "query", "queries", "plugin", "extension",
	"editor", "upload", "storage", "security", "compliance", "soc2", "gdpr", "retry", "rollback",
	"streak", "streaks", "lesson", "lessons", "quiz", "quizzes", "cohort", "cohorts", "csv",
	"pdf", "email", "sms", "portal", "marketplace", "catalog", "cart", "inventory", "sandbox",
	"staging", "production", "cluster", "kubernetes", "terraform", "ci", "build", "builds",
)

// EngineeringVocabulary raises ranking for engineering-anchored candidates.
var EngineeringVocabulary = vocab(
	"api", "apis", "endpoint", "module", "service", "database", "schema", "pipeline", "cache",
	"caching", "sdk", "cli", "webhook", "bug", "crash", "latency", "migration", "deploy",
	"backend", "frontend", "infra", "query", "queries", "index", "queue", "retry", "tests",
	"logging", "export", "integration", "performance", "security",
)

// ImplementationVerbs raise ranking for concrete build work.
var ImplementationVerbs = vocab(
	"implement", "build", "refactor", "fix", "migrate", "add", "integrate", "instrument", "ship",
	"deploy", "automate", "expose", "replace", "support",
)

// MarketingVocabulary lowers ranking for promotional candidates.
var MarketingVocabulary = vocab(
	"marketing", "campaign", "campaigns", "blast", "newsletter", "promo", "promotion", "press",
	"announcement", "webinar", "ad", "ads", "social", "brand", "branding", "seo",
)
