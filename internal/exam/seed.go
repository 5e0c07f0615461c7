package exam

// defaultCatalog is the built-in exam catalog, set by init().
var defaultCatalog *Catalog

func init() {
	c, err := NewCatalog(seedExams())
	if err != nil {
		panic("exam: invalid built-in catalog: " + err.Error())
	}
	defaultCatalog = c
}

// DefaultCatalog returns the built-in exam catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var essayTopics = []string{
	"Education",
	"Technology",
	"Environment",
	"Health",
	"Work and Careers",
	"Society and Culture",
	"Government and Public Policy",
	"Media and Advertising",
}

func seedExams() []Exam {
	return []Exam{
		{
			Key:     ExamIELTS,
			Label:   "IELTS",
			Info:    "International English Language Testing System, Academic and General Training modules.",
			Purpose: "University admission, professional registration and migration.",
			Tasks: []Task{
				{
					Key:         TaskIELTSAcademic,
					Name:        "Task 1 (Academic)",
					Description: "Summarise and compare the main features of a chart, graph or table.",
					Time:        "20 minutes",
					Words:       "~150 words",
					Topics:      []string{"Population", "Energy", "Transport", "Education", "Economy"},
					Chart:       true,
				},
				{
					Key:         TaskIELTSLetter,
					Name:        "Task 1 (General Training)",
					Description: "Write a letter responding to an everyday situation.",
					Time:        "20 minutes",
					Words:       "~150 words",
					Topics:      []string{"Complaint", "Request", "Apology", "Invitation", "Application"},
				},
				{
					Key:           TaskIELTSEssay,
					Name:          "Task 2",
					Description:   "Write an essay in response to a point of view, argument or problem.",
					Time:          "40 minutes",
					Words:         "~250 words",
					Topics:        essayTopics,
					MinParagraphs: 4,
				},
			},
		},
		{
			Key:     ExamTOEFL,
			Label:   "TOEFL iBT",
			Info:    "Test of English as a Foreign Language, internet-based test.",
			Purpose: "Admission to English-medium universities.",
			Tasks: []Task{
				{
					Key:           TaskTOEFLIntegrated,
					Name:          "Integrated Writing",
					Description:   "Summarise a reading passage and explain how a lecture challenges it.",
					Time:          "20 minutes",
					Words:         "150-225 words",
					MinParagraphs: 3,
				},
				{
					Key:         TaskTOEFLDiscussion,
					Name:        "Academic Discussion",
					Description: "Contribute an opinion to an online class discussion.",
					Time:        "10 minutes",
					Words:       "100+ words",
					Topics:      essayTopics,
				},
			},
		},
		{
			Key:     ExamCET4,
			Label:   "CET-4",
			Info:    "College English Test Band 4.",
			Purpose: "Undergraduate English proficiency certification.",
			Tasks: []Task{
				{
					Key:           TaskCETEssay,
					Name:          "Writing",
					Description:   "Write a short argumentative or practical essay.",
					Time:          "30 minutes",
					Words:         "120-180 words",
					Topics:        essayTopics,
					MinParagraphs: 3,
				},
				{
					Key:         TaskCETTranslation,
					Name:        "Translation",
					Description: "Translate a Chinese paragraph into English.",
					Time:        "30 minutes",
					Words:       "140-160 words",
					Disabled:    true,
				},
			},
		},
		{
			Key:     ExamCET6,
			Label:   "CET-6",
			Info:    "College English Test Band 6.",
			Purpose: "Advanced undergraduate English proficiency certification.",
			Tasks: []Task{
				{
					Key:           TaskCETEssay,
					Name:          "Writing",
					Description:   "Write an argumentative essay on a given theme.",
					Time:          "30 minutes",
					Words:         "150-200 words",
					Topics:        essayTopics,
					MinParagraphs: 3,
				},
			},
		},
	}
}
