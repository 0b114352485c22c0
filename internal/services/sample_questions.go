package services

import "github.com/vytor/studybook/internal/models"

func difficulty(d string) *string { return &d }

// sampleQuestions seed a notebook that has no generated questions yet.
var sampleQuestions = []models.QuizQuestion{
	{
		Question:     "What is the best way to learn new concepts?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"Rote repetition of the material",
			"Linking to existing knowledge and making examples",
			"Reading the material once",
			"Relying on visual memory only",
		},
		CorrectAnswer: "Linking to existing knowledge and making examples",
		Explanation:   "Learning sticks when new information is connected to what you already know and grounded in concrete examples.",
		Difficulty:    difficulty("medium"),
	},
	{
		Question:     "Which of these tools is most effective for reviewing study material?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"Flashcards",
			"Rereading the book",
			"Only watching videos",
			"Sleeping instead of studying",
		},
		CorrectAnswer: "Flashcards",
		Explanation:   "Flashcards force active recall and self-testing, which strengthens long-term memory.",
		Difficulty:    difficulty("easy"),
	},
	{
		Question:     "What does 'active learning' mean?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"Staying awake while studying",
			"Reading out loud",
			"Engaging in thinking, discussion and applying knowledge",
			"Studying while standing",
		},
		CorrectAnswer: "Engaging in thinking, discussion and applying knowledge",
		Explanation:   "Active learning means taking part in the process through critical thinking, problem solving and applying what you learned.",
		Difficulty:    difficulty("medium"),
	},
	{
		Question:     "Which factor matters most for long-term memory?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"The number of hours spent studying",
			"The quality and depth of processing",
			"The time of day you study",
			"How many times you read the material",
		},
		CorrectAnswer: "The quality and depth of processing",
		Explanation:   "Deep, meaningful processing of information matters more than the time spent on it.",
		Difficulty:    difficulty("hard"),
	},
	{
		Question:     "What is the effect of spaced repetition?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"It makes you forget faster",
			"It improves long-term memory",
			"It only works for foreign languages",
			"It only works with visual memory",
		},
		CorrectAnswer: "It improves long-term memory",
		Explanation:   "Reviewing at growing intervals reinforces memory traces and greatly improves retention.",
		Difficulty:    difficulty("medium"),
	},
	{
		Question:     "Which study environment helps most people?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"A noisy place full of distractions",
			"A quiet, well-lit place without distractions",
			"Only the library",
			"The environment does not matter",
		},
		CorrectAnswer: "A quiet, well-lit place without distractions",
		Explanation:   "A quiet and tidy space makes it easier to concentrate.",
		Difficulty:    difficulty("easy"),
	},
	{
		Question:     "What is the most important quality of good notes?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"Writing down every word the lecturer says",
			"Writing only in blue ink",
			"Summarising and organising the material in your own words",
			"Writing only dates and times",
		},
		CorrectAnswer: "Summarising and organising the material in your own words",
		Explanation:   "Rephrasing information in your own words deepens understanding and improves recall.",
		Difficulty:    difficulty("medium"),
	},
	{
		Question:     "When is the best time to review material you have learned?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Options: []string{
			"Only right before the exam",
			"Within 24 hours of first learning it",
			"Only after a week",
			"Timing does not matter",
		},
		CorrectAnswer: "Within 24 hours of first learning it",
		Explanation:   "A review shortly after first learning prevents forgetting and consolidates the material.",
		Difficulty:    difficulty("easy"),
	},
}
