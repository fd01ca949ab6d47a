package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/roomfinder-bot/internal/dto"
)

// Menu labels. Incoming text is matched against them exactly.
const (
	CommandStart         = "/start"
	LabelSearchRoom      = "Пошук аудиторії"
	LabelStatistics      = "Статистика"
	LabelBuildingInfo    = "Інформація про корпуси"
	LabelBack            = "Повернутися"
	LabelSubscriberCount = "Кількість підписників"
	LabelOwnActivity     = "Власна активність"
)

// activityTimeLayout renders UTC timestamps in the day-first form users expect.
const activityTimeLayout = "02.01.2006 15:04:05"

const (
	textWelcome           = "Вітаємо! Оберіть дію:"
	textSearchPrompt      = "Введіть номер аудиторії (номер поверху та літера корпусу, наприклад, 302і):"
	textStatistics        = "Статистика:"
	textChooseBuilding    = "Оберіть корпус:"
	textBuildingNotFound  = "Корпус не знайдено."
	textNoActivity        = "Немає інформації про вашу активність."
	textUnknownCommand    = "Невідома команда"
	textInvalidRoomFormat = "Введено невірний формат аудиторії. Будь ласка, введіть номер аудиторії у форматі 302і."
	textTextOnly          = "Використовуйте лише текст!"
)

func rootMenuKeyboard() *dto.ReplyKeyboard {
	return &dto.ReplyKeyboard{
		Rows:   [][]string{{LabelSearchRoom, LabelStatistics, LabelBuildingInfo}},
		Resize: true,
	}
}

func statisticsKeyboard() *dto.ReplyKeyboard {
	return &dto.ReplyKeyboard{
		Rows:   [][]string{{LabelBack, LabelSubscriberCount, LabelOwnActivity}},
		Resize: true,
	}
}

func buildingsKeyboard(names []string) *dto.ReplyKeyboard {
	row := make([]string, 0, len(names)+1)
	row = append(row, names...)
	row = append(row, LabelBack)
	return &dto.ReplyKeyboard{Rows: [][]string{row}}
}

func roomFoundText(location dto.ClassroomLocation) string {
	return fmt.Sprintf("Аудиторія %s знаходиться у корпусі %s на %d поверсі.", location.Code, location.BuildingName, location.FloorNumber)
}

func roomNotFoundText(code string) string {
	return fmt.Sprintf("Аудиторію %s не знайдено.", code)
}

func subscriberCountText(count int64) string {
	return fmt.Sprintf("Кількість підписників: %d", count)
}

func activityText(summary dto.ActivitySummary) string {
	var b strings.Builder
	b.WriteString("Ваша остання активність:")
	fmt.Fprintf(&b, "\nПовідомлень відправлено: %d", summary.MessagesSent)
	fmt.Fprintf(&b, "\nОстання аудиторія, яку ви шукали: %s", summary.LastClassroomSearched)
	fmt.Fprintf(&b, "\nЧас останньої активності: %s", summary.Time.UTC().Format(activityTimeLayout))
	fmt.Fprintf(&b, "\nЗагальна кількість запитів: %d", summary.TotalSearches)
	return b.String()
}

func buildingSummaryText(summary dto.BuildingSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Корпус: %s", summary.Name)
	fmt.Fprintf(&b, "\nКількість поверхів: %d", summary.FloorCount)
	fmt.Fprintf(&b, "\nКількість аудиторій: %d", summary.ClassroomCount)
	if summary.HasClassrooms {
		fmt.Fprintf(&b, "\nПерша аудиторія: %s", summary.FirstClassroomCode)
	} else {
		b.WriteString("\nУ цьому корпусі ще немає аудиторій.")
	}
	return b.String()
}
