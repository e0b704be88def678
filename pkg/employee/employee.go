package employee

type Employee struct {
	Id          int
	Uid         string
	DisplayName string
	Email       string
	Phone       string
	Role        string
	Settings    Settings
}

type Settings struct {
	Timezone         string
	GoogleCalendarId string
}
