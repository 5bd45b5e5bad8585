package calendar

import (
	"time"

	"creatorflow/internal/model"
)

// DemoMonth is the month the demo events fall in.
var DemoMonth = Month{Year: 2024, Month: time.May}

// DemoEvents returns the sample content plan shown on first start.
func DemoEvents() []model.CalendarEvent {
	at := func(h, m int) *model.Clock { return &model.Clock{Hour: h, Minute: m} }
	day := func(d int) model.Date { return model.Date{Year: 2024, Month: time.May, Day: d} }

	return []model.CalendarEvent{
		{ID: "1", Date: day(15), Time: at(9, 0), Title: "Product Launch Teaser", Platform: model.Instagram, Status: model.Published},
		{ID: "2", Date: day(18), Time: at(14, 30), Title: "Industry Insights Thread", Platform: model.Twitter, Status: model.Scheduled},
		{ID: "3", Date: day(20), Title: "Weekly Vlog", Platform: model.YouTube, Status: model.Draft},
		{ID: "4", Date: day(22), Time: at(10, 0), Title: "CEO Interview Clip", Platform: model.LinkedIn, Status: model.Scheduled},
		{ID: "5", Date: day(25), Title: "Summer Sale Announcement", Platform: model.Instagram, Status: model.Draft},
	}
}
