package quizbank

import "fmt"

// Builtin returns the registry over the catalogue shipped with the portal.
func Builtin() *StaticRegistry {
	return NewStaticRegistry(builtinEntries(), FallbackEntry())
}

// FallbackEntry is served for courses without an authored bank.
func FallbackEntry() Entry {
	return Entry{
		Templates: []QuestionTemplate{
			{
				Text: "Which habit best supports long-term retention of new material?",
				Options: []string{
					"Re-reading notes the night before the exam",
					"Spaced retrieval practice over several days",
					"Highlighting every key sentence",
					"Studying only when motivated",
				},
				AnswerIndex: 1,
			},
			{
				Text: "When you miss a quiz question, what is the most useful next step?",
				Options: []string{
					"Memorise the correct letter",
					"Skip it and move on to new topics",
					"Work out why your choice was wrong and revisit the concept",
					"Retake the quiz immediately until you pass",
				},
				AnswerIndex: 2,
			},
			{
				Text: "What is the main purpose of a self-check quiz?",
				Options: []string{
					"To find gaps in understanding before graded work",
					"To replace lectures",
					"To rank students against each other",
					"To finish the course faster",
				},
				AnswerIndex: 0,
			},
		},
		Meta: CourseMeta{
			TimeLimitMinutes: 10,
			DurationLabel:    "10 minutes",
			Weight:           "Practice",
			FocusAreas:       []string{"Study strategies", "Reviewing mistakes", "Self-assessment"},
			Description: func(title string) string {
				return fmt.Sprintf("A short self-check for %s covering general study skills.", title)
			},
		},
	}
}

func builtinEntries() map[string]Entry {
	return map[string]Entry{
		"c-data-structures": {
			Templates: []QuestionTemplate{
				{
					Text:        "Which data structure gives O(1) average-time lookup by key?",
					Options:     []string{"Linked list", "Hash table", "Binary heap", "Stack"},
					AnswerIndex: 1,
				},
				{
					Text:        "A stack follows which access order?",
					Options:     []string{"First in, first out", "Priority order", "Last in, first out", "Random access"},
					AnswerIndex: 2,
				},
				{
					Text:        "What is the worst-case height of an unbalanced binary search tree with n nodes?",
					Options:     []string{"n", "log n", "sqrt n", "1"},
					AnswerIndex: 0,
				},
				{
					Text:        "Which structure is the usual backing store for a priority queue?",
					Options:     []string{"Array list", "Queue", "Trie", "Binary heap"},
					AnswerIndex: 3,
				},
			},
			Meta: CourseMeta{
				TimeLimitMinutes: 15,
				DurationLabel:    "15 minutes",
				Weight:           "10% of final grade",
				FocusAreas:       []string{"Hashing", "Stacks and queues", "Tree balance", "Heaps"},
				Description: func(title string) string {
					return fmt.Sprintf("Check your grasp of the core structures covered in %s.", title)
				},
			},
		},
		"c-algorithms": {
			Templates: []QuestionTemplate{
				{
					Text:        "What is the average-case time complexity of quicksort?",
					Options:     []string{"O(n)", "O(n log n)", "O(n^2)", "O(log n)"},
					AnswerIndex: 1,
				},
				{
					Text:        "Dijkstra's algorithm requires which property of edge weights?",
					Options:     []string{"They are integers", "They are distinct", "They are non-negative", "They sum to one"},
					AnswerIndex: 2,
				},
				{
					Text:        "Binary search requires its input to be:",
					Options:     []string{"Sorted", "Unique", "Stored in a linked list", "Of even length"},
					AnswerIndex: 0,
				},
				{
					Text:        "Memoisation is the key technique of which paradigm?",
					Options:     []string{"Greedy algorithms", "Divide and conquer", "Backtracking", "Dynamic programming"},
					AnswerIndex: 3,
				},
				{
					Text:        "Which traversal visits a graph level by level?",
					Options:     []string{"Depth-first search", "Breadth-first search", "In-order traversal", "Topological sort"},
					AnswerIndex: 1,
				},
			},
			Meta: CourseMeta{
				TimeLimitMinutes: 20,
				DurationLabel:    "20 minutes",
				Weight:           "15% of final grade",
				FocusAreas:       []string{"Sorting", "Shortest paths", "Searching", "Dynamic programming"},
				Description: func(title string) string {
					return fmt.Sprintf("Reason about running time and correctness of the algorithms from %s.", title)
				},
			},
		},
		"c-databases": {
			Templates: []QuestionTemplate{
				{
					Text:        "Which normal form removes transitive dependencies?",
					Options:     []string{"First normal form", "Second normal form", "Third normal form", "Fourth normal form"},
					AnswerIndex: 2,
				},
				{
					Text:        "The 'I' in ACID stands for:",
					Options:     []string{"Isolation", "Integrity", "Indexing", "Idempotence"},
					AnswerIndex: 0,
				},
				{
					Text:        "Which join returns only rows with matches in both tables?",
					Options:     []string{"LEFT JOIN", "FULL OUTER JOIN", "CROSS JOIN", "INNER JOIN"},
					AnswerIndex: 3,
				},
				{
					Text:        "A B-tree index is most helpful for which query?",
					Options:     []string{"Full table scans", "Range predicates on the indexed column", "Inserting unsorted data", "Dropping a table"},
					AnswerIndex: 1,
				},
			},
			Meta: CourseMeta{
				TimeLimitMinutes: 15,
				DurationLabel:    "15 minutes",
				Weight:           "10% of final grade",
				FocusAreas:       []string{"Normalisation", "Transactions", "Joins", "Indexing"},
				Description: func(title string) string {
					return fmt.Sprintf("Practice schema design and query reasoning from %s.", title)
				},
			},
		},
		"c-operating-systems": {
			Templates: []QuestionTemplate{
				{
					Text:        "Which condition is NOT required for deadlock?",
					Options:     []string{"Mutual exclusion", "Hold and wait", "Preemption", "Circular wait"},
					AnswerIndex: 2,
				},
				{
					Text:        "A page fault occurs when a process accesses:",
					Options:     []string{"A page not currently in physical memory", "A read-only file", "A locked mutex", "The kernel stack"},
					AnswerIndex: 0,
				},
				{
					Text:        "Round-robin scheduling is characterised by:",
					Options:     []string{"Shortest job first", "A fixed time quantum per process", "Static priorities only", "No preemption"},
					AnswerIndex: 1,
				},
			},
			Meta: CourseMeta{
				TimeLimitMinutes: 12,
				DurationLabel:    "12 minutes",
				Weight:           "5% of final grade",
				FocusAreas:       []string{"Concurrency", "Virtual memory", "Scheduling"},
				Description: func(title string) string {
					return fmt.Sprintf("Review process management and memory topics from %s.", title)
				},
			},
		},
		"c-computer-networks": {
			Templates: []QuestionTemplate{
				{
					Text:        "Which layer of the OSI model handles routing between networks?",
					Options:     []string{"Data link", "Network", "Transport", "Session"},
					AnswerIndex: 1,
				},
				{
					Text:        "TCP differs from UDP because TCP provides:",
					Options:     []string{"Lower latency", "Broadcast delivery", "Smaller headers", "Reliable, ordered delivery"},
					AnswerIndex: 3,
				},
				{
					Text:        "DNS primarily translates:",
					Options:     []string{"Host names to IP addresses", "MAC addresses to IP addresses", "Ports to services", "IPv4 to IPv6"},
					AnswerIndex: 0,
				},
				{
					Text:        "What does a /24 subnet mask leave for host addresses in IPv4?",
					Options:     []string{"16 bits", "24 bits", "8 bits", "32 bits"},
					AnswerIndex: 2,
				},
			},
			Meta: CourseMeta{
				TimeLimitMinutes: 15,
				DurationLabel:    "15 minutes",
				Weight:           "10% of final grade",
				FocusAreas:       []string{"Layered models", "Transport protocols", "Naming", "Addressing"},
				Description: func(title string) string {
					return fmt.Sprintf("Test your understanding of protocols and addressing in %s.", title)
				},
			},
		},
		"c-software-engineering": {
			Templates: []QuestionTemplate{
				{
					Text:        "Which practice integrates code changes into a shared branch several times a day?",
					Options:     []string{"Code freeze", "Continuous integration", "Waterfall planning", "Pair programming"},
					AnswerIndex: 1,
				},
				{
					Text:        "A unit test should primarily:",
					Options:     []string{"Exercise one unit of behaviour in isolation", "Hit the production database", "Cover the whole user journey", "Run only before releases"},
					AnswerIndex: 0,
				},
				{
					Text:        "Which principle says a module should have one reason to change?",
					Options:     []string{"Open/closed", "Liskov substitution", "Dependency inversion", "Single responsibility"},
					AnswerIndex: 3,
				},
				{
					Text:        "Semantic versioning bumps which number for a backwards-incompatible change?",
					Options:     []string{"Patch", "Minor", "Major", "Build metadata"},
					AnswerIndex: 2,
				},
			},
			Meta: CourseMeta{
				TimeLimitMinutes: 15,
				DurationLabel:    "15 minutes",
				Weight:           "Practice",
				FocusAreas:       []string{"Delivery practices", "Testing", "Design principles", "Release management"},
				Description: func(title string) string {
					return fmt.Sprintf("Apply the engineering practices discussed in %s.", title)
				},
			},
		},
	}
}
