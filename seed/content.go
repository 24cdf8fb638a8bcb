package seed

// Course is the root of a content tree: course -> modules -> lessons -> sections.
type Course struct {
	Slug        string
	Title       string
	Description string
	Modules     []Module
}

// Module groups lessons under a course.
type Module struct {
	Slug    string
	Title   string
	Lessons []Lesson
}

// Lesson groups ordered sections of content.
type Lesson struct {
	Slug     string
	Title    string
	Sections []Section
}

// Section is a single block of lesson content.
type Section struct {
	Heading string
	Body    string
}

// PromptEngineeringCourse returns the seeded "Prompt Engineering" content
// tree. Positions come from slice order.
func PromptEngineeringCourse() Course {
	return Course{
		Slug:        "prompt-engineering",
		Title:       "Prompt Engineering",
		Description: "Designing effective prompts for large language models, from first principles to production patterns.",
		Modules: []Module{
			{
				Slug:  "foundations",
				Title: "Foundations of Prompting",
				Lessons: []Lesson{
					{
						Slug:  "how-llms-read-prompts",
						Title: "How Language Models Read Prompts",
						Sections: []Section{
							{
								Heading: "Tokens, not words",
								Body:    "Models consume token sequences. Understanding tokenization explains why small wording changes can shift results and why budgets are measured in tokens rather than characters.",
							},
							{
								Heading: "Context windows",
								Body:    "Everything the model can use must fit the context window. Anything outside it does not exist for the model, no matter how important it is to you.",
							},
							{
								Heading: "Instructions versus completion",
								Body:    "Instruction-tuned models follow directions; base models continue text. Knowing which you are addressing determines how a prompt should be framed.",
							},
						},
					},
					{
						Slug:  "anatomy-of-a-prompt",
						Title: "Anatomy of a Prompt",
						Sections: []Section{
							{
								Heading: "Role, task, constraints",
								Body:    "A dependable prompt names who the model is, what it must produce, and the rules the output has to respect. Missing any of the three invites drift.",
							},
							{
								Heading: "Output contracts",
								Body:    "Specify the exact output shape - a JSON schema, a table, a word limit - and show one example of it. Contracts turn fuzzy generation into checkable results.",
							},
						},
					},
				},
			},
			{
				Slug:  "core-techniques",
				Title: "Core Techniques",
				Lessons: []Lesson{
					{
						Slug:  "few-shot-prompting",
						Title: "Few-Shot Prompting",
						Sections: []Section{
							{
								Heading: "Choosing examples",
								Body:    "Examples teach format and judgment simultaneously. Pick ones that cover edge cases, and keep their style identical to the output you expect.",
							},
							{
								Heading: "Ordering effects",
								Body:    "Models weight recent context more heavily. Put the example closest to your real case last, and keep the set small enough to leave room for the task.",
							},
						},
					},
					{
						Slug:  "chain-of-thought",
						Title: "Chain-of-Thought Reasoning",
						Sections: []Section{
							{
								Heading: "Stepwise decomposition",
								Body:    "Asking the model to reason step by step before answering improves accuracy on tasks with intermediate structure: arithmetic, planning, multi-hop lookups.",
							},
							{
								Heading: "When to skip it",
								Body:    "For extraction and classification the extra reasoning adds latency and noise. Reserve deliberate reasoning for problems that actually have steps.",
							},
						},
					},
					{
						Slug:  "iterating-on-prompts",
						Title: "Iterating on Prompts",
						Sections: []Section{
							{
								Heading: "One variable at a time",
								Body:    "Change a single element per iteration and keep a log. Prompt work without controlled comparisons degenerates into superstition.",
							},
							{
								Heading: "Evaluation sets",
								Body:    "A dozen representative inputs with known-good outputs catches regressions faster than staring at single responses ever will.",
							},
						},
					},
				},
			},
			{
				Slug:  "production-patterns",
				Title: "Production Patterns",
				Lessons: []Lesson{
					{
						Slug:  "structured-output",
						Title: "Structured Output and Validation",
						Sections: []Section{
							{
								Heading: "Schema-first prompting",
								Body:    "Declare the schema in the prompt, validate the response against it, and retry with the validation error included. Most malformed outputs fix themselves on the second pass.",
							},
							{
								Heading: "Defensive parsing",
								Body:    "Expect prose around the payload, trailing commas, and fenced code blocks. Parsers that tolerate the common failure shapes save a retry round-trip.",
							},
						},
					},
					{
						Slug:  "prompt-injection",
						Title: "Prompt Injection and Safety",
						Sections: []Section{
							{
								Heading: "Untrusted input is code",
								Body:    "Any text a user controls can carry instructions. Separate system direction from user data structurally and never grant user text the authority of your own.",
							},
							{
								Heading: "Least-privilege tools",
								Body:    "When prompts drive tool use, scope each tool to the minimum capability the task needs. Injection is inevitable; blast radius is a choice.",
							},
						},
					},
				},
			},
		},
	}
}
