// Package calendar exports extracted course slots as an iCalendar file.
//
// Every slot becomes a weekly recurring event starting in the week of the
// term start. Slot times are 12-hour clock ranges without AM/PM; hours 1
// through 7 are read as afternoon hours, so "9-2" runs from 09:00 to 14:00.
package calendar
