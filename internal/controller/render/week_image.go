package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	maxNamesOnSlot   = 5
	maxNameLen       = 18
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 26.0
	hourLabelFontSize  = 18.0
	slotTitleFontSize  = 17.0
	slotNameFontSize   = 13.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 90}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{225, 225, 225, 255}

	slotEmptyColor     = color.RGBA{133, 193, 85, 220}
	slotPartialColor   = color.RGBA{255, 214, 102, 230}
	slotFullColor      = color.RGBA{255, 150, 160, 255}
	slotCancelledColor = color.RGBA{158, 158, 158, 200}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotShadowColor    = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

type fontStyle int

const (
	fontRegular fontStyle = iota
	fontBold
)

var (
	fontsOnce   sync.Once
	parsedFonts map[fontStyle]*opentype.Font
)

func parseFonts() {
	parsedFonts = make(map[fontStyle]*opentype.Font)
	if f, err := opentype.Parse(goregular.TTF); err == nil {
		parsedFonts[fontRegular] = f
	}
	if f, err := opentype.Parse(gobold.TTF); err == nil {
		parsedFonts[fontBold] = f
	}
}

// setFont выбирает шрифт нужного размера, при ошибке остаётся basicfont
func setFont(dc *gg.Context, size float64, style fontStyle) {
	fontsOnce.Do(parseFonts)

	if f, ok := parsedFonts[style]; ok {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

type hourRange struct {
	start int
	total int
}

// WeekImage рисует PNG сетку рабочей недели: слот на каждый класс с заполненностью и именами
func WeekImage(week []service.DayOverview, today string) ([]byte, error) {
	if len(week) == 0 {
		return nil, fmt.Errorf("render week: no days")
	}

	hours := hourRangeOf(week)
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / len(week)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	for i, day := range week {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, day.Date == today)
		drawDayHeader(dc, day.Date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, class := range day.Classes {
			drawClass(dc, class, x, y, dayWidth, hours, cellHeight)
		}
	}

	drawLegend(dc, leftLabelsWidth+len(week)*dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// hourRangeOf часы от первого до последнего класса недели с запасом в час
func hourRangeOf(week []service.DayOverview) hourRange {
	minHour, maxHour := 24, -1
	for _, day := range week {
		for _, c := range day.Classes {
			if c.Hour < minHour {
				minHour = c.Hour
			}
			if c.Hour > maxHour {
				maxHour = c.Hour
			}
		}
	}
	if maxHour < 0 {
		return hourRange{start: 8, total: 12}
	}

	start := minHour - 1
	if start < 0 {
		start = 0
	}
	end := maxHour + 2
	if end > 24 {
		end = 24
	}
	return hourRange{start: start, total: end - start}
}

func drawHeader(dc *gg.Context, week []service.DayOverview) {
	title := fmt.Sprintf("Неделя %s - %s", shortDate(week[0].Date), shortDate(week[len(week)-1].Date))

	setFont(dc, titleFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	setFont(dc, hourLabelFontSize, fontRegular)
	dc.SetColor(hourLabelColor)

	for i := 0; i < hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, index int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date string, x, y float64, dayWidth int) {
	weekday := ""
	if t, err := calendar.ParseDate(date, time.UTC); err == nil {
		weekday = weekdayShort(t.Weekday())
	}

	setFont(dc, dayFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(shortDate(date), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekday, x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawClass(dc *gg.Context, class service.ClassSummary, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	slotY := y + float64(class.Hour-hours.start)*cellHeight
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)
	slotHeight := cellHeight - 4
	fill := classColor(class)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight, slotBorderRadius)
	dc.Stroke()

	txtX := x + dayPaddingX + 8
	txtY := slotY + 20

	title := fmt.Sprintf("%s  %d/%d", class.ClassID, class.Occupancy, class.Capacity)
	if class.IsCancelled {
		title = class.ClassID + "  отменён"
	}
	setFont(dc, slotTitleFontSize, fontBold)
	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(title, txtX, txtY, 0, 0)

	setFont(dc, slotNameFontSize, fontRegular)
	lineY := txtY + 16
	for i, name := range class.StudentNames {
		if i == maxNamesOnSlot || lineY > slotY+slotHeight-4 {
			break
		}
		dc.DrawStringAnchored(truncate(name, maxNameLen), txtX, lineY, 0, 0)
		lineY += 14
	}
}

func classColor(class service.ClassSummary) color.RGBA {
	switch {
	case class.IsCancelled:
		return slotCancelledColor
	case class.Occupancy == 0:
		return slotEmptyColor
	case class.Occupancy >= class.Capacity:
		return slotFullColor
	default:
		return slotPartialColor
	}
}

func drawLegend(dc *gg.Context, left int) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Пусто", slotEmptyColor},
		{"Есть места", slotPartialColor},
		{"Заполнен", slotFullColor},
		{"Отменён", slotCancelledColor},
	}

	boxW, boxH := 20.0, 14.0
	x := float64(left + 10)
	y := float64(imageHeight) - 130.0

	setFont(dc, legendItemFontSize, fontRegular)
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// shortDate YYYY-MM-DD -> DD.MM
func shortDate(date string) string {
	if len(date) != len(calendar.DateLayout) {
		return date
	}
	return date[8:10] + "." + date[5:7]
}

func weekdayShort(wd time.Weekday) string {
	return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[wd]
}
