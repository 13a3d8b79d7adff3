package config

// Defaults returns the built-in configuration: Adelaide/Melbourne junior
// tech roles, with the stock heuristic tables. config.yaml overrides any
// of it.
func Defaults() *Config {
	return &Config{
		Locations: []string{"Adelaide", "Melbourne", "Remote-AU"},

		LocationRules: []LocationRule{
			{Match: "adelaide", Canonical: "Adelaide"},
			{Match: "south australia", Canonical: "Adelaide"},
			{Match: "melbourne", Canonical: "Melbourne"},
			{Match: "victoria", Canonical: "Melbourne"},
			{Match: "vic", Canonical: "Melbourne"},
			{Match: "work from home", Canonical: "Remote-AU"},
			{Match: "remote", Canonical: "Remote-AU"},
			{Match: "hybrid", Canonical: "Remote-AU"},
		},

		LevelRules: []TagRule{
			{Tag: "Graduate", Phrases: []string{"graduate", "grad"}},
			{Tag: "Junior", Phrases: []string{"junior", "jr"}},
			{Tag: "Entry", Phrases: []string{"entry level", "entry-level", "entry"}},
			{Tag: "Associate", Phrases: []string{"associate"}},
			{Tag: "EarlyCareer", Phrases: []string{"early career", "early-career", "cadet", "intern"}},
		},

		// senior-level roles are dropped on title alone, whatever else matches
		ExcludeTitlePhrases: []string{
			"senior", "sr", "lead", "principal", "staff", "manager",
			"director", "head of", "vp", "vice president", "chief",
			"experienced", "mid level", "mid-level",
		},

		RoleRules: []TagRule{
			{Tag: "SWE", Phrases: []string{
				"software engineer", "software developer", "software engineering",
				"backend", "frontend", "full stack", "fullstack", "web developer",
				"devops", "platform engineer", "developer", "software",
			}},
			{Tag: "Architecture", Phrases: []string{"architect"}},
			{Tag: "Program", Phrases: []string{
				"graduate program", "graduate programme", "rotation program",
				"rotational", "internship", "cadet program", "technology program",
			}},
		},

		Visa: VisaSignals{
			Negative: []Signal{
				{Phrase: "australian citizen", Label: "Australian citizen required"},
				{Phrase: "citizenship required", Label: "Australian citizenship required"},
				{Phrase: "citizens only", Label: "Citizens only"},
				{Phrase: "nv1", Label: "NV1 clearance required"},
				{Phrase: "nv2", Label: "NV2 clearance required"},
				{Phrase: "top secret", Label: "Security clearance required"},
				{Phrase: "secret clearance", Label: "Security clearance required"},
				{Phrase: "baseline clearance", Label: "Baseline clearance required"},
				{Phrase: "security clearance", Label: "Security clearance required"},
				{Phrase: "permanent resident only", Label: "Permanent residents only"},
				{Phrase: "pr only", Label: "Permanent residents only"},
				{Phrase: "must hold permanent", Label: "Permanent residence required"},
			},
			ModerateNegative: []Signal{
				{Phrase: "full working rights", Label: "Full working rights required (may exclude temporary visas)"},
				{Phrase: "permanent work rights", Label: "Permanent work rights required"},
				{Phrase: "unrestricted work rights", Label: "Unrestricted work rights required"},
			},
			Positive: []Signal{
				{Phrase: "visa sponsorship", Label: "Visa sponsorship available"},
				{Phrase: "sponsorship available", Label: "Visa sponsorship available"},
				{Phrase: "sponsor visa", Label: "Visa sponsorship available"},
				{Phrase: "international candidates", Label: "International candidates welcome"},
				{Phrase: "international students", Label: "International students welcome"},
				{Phrase: "welcome international", Label: "International candidates welcome"},
				{Phrase: "temporary visa", Label: "Temporary visa accepted"},
				{Phrase: "485", Label: "485 visa mentioned"},
				{Phrase: "graduate visa", Label: "Graduate visa (485) mentioned"},
			},
			Neutral: []Signal{
				{Phrase: "work rights in australia", Label: "Work rights in Australia mentioned"},
				{Phrase: "right to work", Label: "Right to work mentioned"},
				{Phrase: "visa status", Label: "Visa status mentioned"},
			},
		},

		Sources: map[string]SourceConfig{
			"gradconnection": {Enabled: true, RateLimitSeconds: 2.0},
			"adzuna":         {Enabled: true, RateLimitSeconds: 2.0},
			"jora":           {Enabled: false, RateLimitSeconds: 2.0},
			"seek":           {Enabled: false, RateLimitSeconds: 2.5},
			"emailalerts":    {Enabled: false, RateLimitSeconds: 0},
		},
		// tie-break order for within-run duplicates: earlier wins
		SourcePriority: []string{"GradConnection", "Seek", "Adzuna", "Jora", "EmailAlerts"},

		SinceWindow:  "24h",
		AlertsDir:    "data/alerts",
		StateBackend: "file",
		StatePath:    "data/seen_jobs.json",
		OutputDir:    "output",
	}
}
