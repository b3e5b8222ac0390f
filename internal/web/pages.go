package web

import (
	"net/http"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// FAQEntry is one question/answer pair on the FAQ page.
type FAQEntry struct {
	Question string
	Answer   string
}

// FAQData is the template context for the FAQ page.
type FAQData struct {
	PageData
	Entries []FAQEntry
}

func (s *WebServer) handleFAQ(w http.ResponseWriter, r *http.Request, sess *session) {
	s.render(w, "faq.html", FAQData{
		PageData: PageData{Title: "FAQ", ActiveNav: "faq", User: &sess.User},
		Entries:  faqEntries,
	})
}

func (s *WebServer) handleContactPage(w http.ResponseWriter, r *http.Request, sess *session) {
	s.render(w, "contact.html", PageData{
		Title:     "Contact Us",
		ActiveNav: "contact",
		User:      &sess.User,
		Notice:    popParam(r, "notice"),
		Error:     popParam(r, "error"),
	})
}

func (s *WebServer) handleContact(w http.ResponseWriter, r *http.Request, sess *session) {
	msg := rental.ContactMessage{
		Timestamp: time.Now(),
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Subject:   r.FormValue("subject"),
		Message:   r.FormValue("message"),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		redirectWith(w, r, "/contact", "error", "All fields are required.")
		return
	}
	if err := s.store.SaveContact(msg); err != nil {
		s.logger.Error("save contact message", "error", err)
		redirectWith(w, r, "/contact", "error", "An error occurred while sending your message.")
		return
	}
	redirectWith(w, r, "/contact", "notice", "Your message has been sent successfully!")
}

var faqEntries = []FAQEntry{
	{
		"What do I need to rent a car?",
		"To rent a car, you will need a valid driver's license with a minimum of one year of driving experience, " +
			"a credit card in your name for the security deposit and payment, and proof of insurance or an optional " +
			"insurance coverage offered by the rental company. In some cases, an additional form of identification, " +
			"such as a passport or utility bill, may be required.",
	},
	{
		"How old do I need to be to rent a car?",
		"The minimum age to rent a car is typically 21 years old. However, drivers under 25 may incur a young " +
			"driver surcharge. Some rental locations may have a higher minimum age requirement or additional restrictions.",
	},
	{
		"What types of vehicles are available for rent?",
		"Our rental fleet includes economy cars, sedans, SUVs, luxury cars, sports cars, and convertibles. " +
			"Each class offers a different balance of comfort, space, and price.",
	},
	{
		"Can I modify or cancel my reservation?",
		"Yes. You can cancel your reservation up to 24 hours before the scheduled pickup time without incurring a " +
			"cancellation fee; cancellations within 24 hours of pickup may incur a fee equivalent to one day's rental. " +
			"Changes to the reservation, such as new rental dates, are subject to availability and may change the total price.",
	},
	{
		"What is included in the rental price?",
		"The rental price typically includes basic vehicle rental charges, a standard mileage allowance, and basic " +
			"insurance coverage. Additional costs such as extra mileage, GPS navigation, child seats, or additional " +
			"insurance coverage will be billed separately.",
	},
	{
		"What should I do if I have an accident or breakdown?",
		"Ensure your safety and that of others involved, contact local emergency services if needed, then report the " +
			"incident to our customer service team as soon as possible and follow the instructions provided for towing " +
			"or vehicle replacement.",
	},
	{
		"Are there any additional fees or charges?",
		"Additional fees may include a young driver surcharge for drivers under 25, a late return fee, fuel charges " +
			"if the vehicle is not returned with a full tank, and a cleaning fee for excessively dirty vehicles.",
	},
	{
		"How is the fuel policy handled?",
		"Our standard fuel policy requires you to return the vehicle with a full tank of gas. If the vehicle is " +
			"returned with less fuel, you will be charged for the missing fuel plus a service fee.",
	},
	{
		"Can I extend my rental period?",
		"Yes, you can extend your rental period. Please contact us as soon as possible to arrange for an extension. " +
			"Extension rates will be based on availability and current rental rates.",
	},
	{
		"What if I need to contact customer support?",
		"You can reach our support assistant on the Customer Support page at any time, or send us a message through " +
			"the Contact Us form and the team will get back to you.",
	},
}
