package service

import (
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
)

// Locale carries the translated strings and the calendar formatter used in notifications.
type Locale struct {
	Code       string
	translator locales.Translator

	DaysFormat  string
	HoursFormat string
	UnderAnHour string

	ReminderSubject     string
	ReminderSubjectBare string
	NewHomeworkSubject  string
	ReminderHeading     string
	NewHomeworkHeading  string
	DescriptionHeading  string
	DueDateLabel        string
	RemainingLabel      string
	TipsIntro           string
	Tips                []string
	Footer              string
}

var (
	localeFR = Locale{
		Code:                "fr",
		translator:          fr.New(),
		DaysFormat:          "%d jours",
		HoursFormat:         "%d heures",
		UnderAnHour:         "moins d'une heure",
		ReminderSubject:     "⚠️ Rappel : %s - %s restant",
		ReminderSubjectBare: "⚠️ Rappel : %s",
		NewHomeworkSubject:  "📚 Nouveau devoir : %s",
		ReminderHeading:     "Rappel de Devoir",
		NewHomeworkHeading:  "Nouveau Devoir Ajouté",
		DescriptionHeading:  "Description du devoir :",
		DueDateLabel:        "📅 Date limite :",
		RemainingLabel:      "⏰ Temps restant :",
		TipsIntro:           "💡 Rappel : N'oubliez pas de :",
		Tips: []string{
			"Commencer tôt pour éviter le stress de dernière minute",
			"Vérifier les critères d'évaluation",
			"Poser des questions si nécessaire",
		},
		Footer: "Cet email a été envoyé automatiquement par le système de suivi des devoirs.",
	}

	localeEN = Locale{
		Code:                "en",
		translator:          en.New(),
		DaysFormat:          "%d days",
		HoursFormat:         "%d hours",
		UnderAnHour:         "less than an hour",
		ReminderSubject:     "⚠️ Reminder: %s - %s left",
		ReminderSubjectBare: "⚠️ Reminder: %s",
		NewHomeworkSubject:  "📚 New homework: %s",
		ReminderHeading:     "Homework Reminder",
		NewHomeworkHeading:  "New Homework Added",
		DescriptionHeading:  "Homework description:",
		DueDateLabel:        "📅 Due date:",
		RemainingLabel:      "⏰ Time left:",
		TipsIntro:           "💡 Reminder: don't forget to:",
		Tips: []string{
			"Start early to avoid last-minute stress",
			"Check the grading criteria",
			"Ask questions if needed",
		},
		Footer: "This email was sent automatically by the homework tracker.",
	}
)

// LocaleFor returns the locale for code, falling back to French.
func LocaleFor(code string) Locale {
	if strings.HasPrefix(strings.ToLower(code), "en") {
		return localeEN
	}
	return localeFR
}

// FormatDate renders t as a long calendar date in loc.
func (l Locale) FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	if l.translator == nil {
		return t.Format("02 January 2006")
	}
	return l.translator.FmtDateLong(t)
}
