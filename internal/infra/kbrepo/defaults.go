package kbrepo

import "github.com/akhilvs/sarvajna/internal/domain/kb"

// DefaultEntries is the built-in knowledge base used when no data file or
// database is configured. The facts mirror data/faq_data.json.
func DefaultEntries() []kb.Entry {
	return []kb.Entry{
		{
			ID:               "about",
			QuestionPatterns: []string{"about the college", "tell me about the college", "college details"},
			Tags:             []string{"about", "college", "general"},
			AnswerFacts: kb.Facts{
				{Key: "established", Value: "The college was established in 1995."},
				{Key: "affiliation", Value: "Affiliated to the University of Kerala."},
				{Key: "principal_name", Value: "Dr. R. Nair"},
			},
		},
		{
			ID:               "contact",
			QuestionPatterns: []string{"contact number", "how to contact", "phone number of the office"},
			Tags:             []string{"contact", "phone", "email", "address"},
			AnswerFacts: kb.Facts{
				{Key: "office_phone", Value: "+91 471 2345678"},
				{Key: "office_email", Value: "office@college.ac.in"},
				{Key: "campus_address", Value: "College Road, Thiruvananthapuram, Kerala 695001"},
				{Key: "website", Value: "https://www.college.ac.in"},
			},
		},
		{
			ID:               "courses",
			QuestionPatterns: []string{"courses offered", "what courses are available", "which programs can i join"},
			Tags:             []string{"courses", "programs", "seats", "admission"},
			AnswerFacts: kb.Facts{
				{Key: "ug_courses", Value: "BSc Computer Science, BCom, BA English"},
				{Key: "pg_courses", Value: "MSc Computer Science, MCom"},
				{Key: "total_seats", Value: "60 seats per course"},
				{Key: "course_duration", Value: "3 years for UG, 2 years for PG"},
			},
		},
		{
			ID:               "fees",
			QuestionPatterns: []string{"fee structure", "how much is the fees", "tuition fee details"},
			Tags:             []string{"fee", "fees", "payment"},
			AnswerFacts: kb.Facts{
				{Key: "ug_fee", Value: "Rs 15000 per year"},
				{Key: "pg_fee", Value: "Rs 25000 per year"},
				{Key: "fee_concession", Value: "Concessions available for eligible students as per government norms."},
			},
		},
		{
			ID:               "hostel",
			QuestionPatterns: []string{"hostel facilities", "is there a hostel", "hostel fee and rooms"},
			Tags:             []string{"hostel", "accommodation"},
			AnswerFacts: kb.Facts{
				{Key: "hostel_available", Value: "Separate hostels for men and women."},
				{Key: "hostel_fee", Value: "Rs 30000 per year including mess."},
				{Key: "hostel_warden_phone", Value: "+91 471 2345699"},
			},
		},
		{
			ID:               "library",
			QuestionPatterns: []string{"library hours", "when is the library open", "library timings"},
			Tags:             []string{"library", "books", "timing"},
			AnswerFacts: kb.Facts{
				{Key: "library_timing", Value: "9 AM to 5 PM on working days"},
				{Key: "library_books", Value: "Over 25000 books and 40 journals"},
			},
		},
		{
			ID:               "placement",
			QuestionPatterns: []string{"placement details", "which companies visit", "average salary package"},
			Tags:             []string{"placement", "jobs", "salary"},
			AnswerFacts: kb.Facts{
				{Key: "placement_rate", Value: "85 percent of final year students placed last year."},
				{Key: "average_salary", Value: "Rs 4.2 lakh per annum"},
				{Key: "top_recruiters", Value: "Infosys, TCS, UST Global"},
			},
		},
	}
}
