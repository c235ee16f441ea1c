package content

var (
	AboutMe = []string{
		"I’m a CS student at UT Dallas focused on **AI/ML**, and **Cloud**",
		"This portfolio highlights my projects, certifications, and an easy way to contact me.",
	}

	TechBadges = []string{"Python", "Java", "Streamlit", "React", "TensorFlow", "MediaPipe"}

	Facts = []string{
		"📍 Dallas, TX",
		"🎓 University of Texas at Dallas",
		"🏫 Coppell High School 2020-2023",
	}

	AWSCertNotes = `**Issued by AWS Training & Certification**
Completed: *August 16, 2025*
I learned that AWS Cloud provides a wide range of on-demand services for compute, storage and networking.`

	QuickLinks = []Link{
		{Label: "GitHub", URL: "#"},
		{Label: "LinkedIn", URL: "https://www.linkedin.com/in/ayush-velhal/"},
		{Label: "Email", URL: "mailto:ayush.velhal@gmail.com"},
	}
)

// Default returns the built-in site content.
func Default() *Profile {
	return &Profile{
		Title:           "Ayush | Portfolio",
		Brand:           "💼 Portfolio",
		Owner:           "Ayush Velhal",
		Greeting:        "Hey, I'm Ayush 👋",
		Portrait:        "portrait.jpg",
		PortraitCaption: "Ayush Velhal",
		Bio:             append([]string(nil), AboutMe...),
		Badges:          append([]string(nil), TechBadges...),
		Facts:           append([]string(nil), Facts...),
		ProjectsStatus:  "IN PROGRESS",
		Certifications: []Certification{
			{
				Title:      "AWS Cloud Practitioner — Completion Certificate",
				Issuer:     "AWS Training & Certification",
				Completed:  "August 16, 2025",
				Image:      "AWSCloudPractionerSS.png",
				ImageWidth: 250,
				Notes:      AWSCertNotes,
			},
		},
		ContactIntro: "Send me a message and I’ll get back to you.",
		Links:        append([]Link(nil), QuickLinks...),
	}
}
