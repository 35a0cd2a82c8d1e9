package api

import (
	"html/template"
	"time"

	"family-dashboard/models"

	"github.com/dustin/go-humanize"
)

// Converter link shown in the footer
const (
	ConverterURL   = "https://yt1s.ai/zh-tw/youtube-to-mp3/"
	ConverterLabel = "YouTube 轉 MP3"
)

type panelView struct {
	HTML     template.HTML
	Age      string
	Fallback models.Fallback
}

type routeRowView struct {
	Text  template.HTML
	Color string
	Link  string
}

type routeCardView struct {
	Name string
	Rows []routeRowView
}

type pageData struct {
	ID             string
	Clock          panelView
	Currency       panelView
	Weather        panelView
	Fuel           panelView
	Routes         []routeCardView
	ConverterURL   string
	ConverterLabel string
}

// Panel and row HTML is assembled by the feed and traffic packages, which
// escape every upstream value they embed.
func newPageData(s models.Snapshot, now time.Time) pageData {
	data := pageData{
		ID:             s.ID,
		Clock:          newPanelView(s.Clock, now),
		Currency:       newPanelView(s.Currency, now),
		Weather:        newPanelView(s.Weather, now),
		Fuel:           newPanelView(s.Fuel, now),
		ConverterURL:   ConverterURL,
		ConverterLabel: ConverterLabel,
	}
	for _, card := range s.Routes {
		data.Routes = append(data.Routes, routeCardView{
			Name: card.Name,
			Rows: []routeRowView{newRouteRowView(card.Outbound), newRouteRowView(card.Return)},
		})
	}
	return data
}

func newPanelView(r models.FeedResult, now time.Time) panelView {
	v := panelView{HTML: template.HTML(r.HTML), Fallback: r.Fallback}
	if !r.FetchedAt.IsZero() && now.Sub(r.FetchedAt) >= time.Second {
		v.Age = humanize.RelTime(r.FetchedAt, now, "ago", "from now")
	}
	return v
}

func newRouteRowView(r models.TrafficResult) routeRowView {
	return routeRowView{Text: template.HTML(r.Text), Color: string(r.Color), Link: r.Link}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>四維家族 常用工具 (長輩友善版)</title>
<style>
body { background-color: #f5f5f5; margin: 0 auto; max-width: 1400px; padding: 16px; }
.main-title { font-family: "Microsoft JhengHei"; font-size: 36px; font-weight: bold; text-align: center; color: #000000; margin-bottom: 10px; }
.section-title { font-family: "Microsoft JhengHei"; font-size: 24px; font-weight: bold; color: #000000; margin-top: 5px; margin-bottom: 5px; border-bottom: 2px solid #ccc; }
.data-box { background-color: #2c3e50; padding: 15px; border-radius: 5px; font-family: "Consolas", "Microsoft JhengHei"; font-size: 24px; font-weight: bold; line-height: 1.5; margin-bottom: 10px; }
.traffic-card { background-color: #2c3e50; border: 1px solid #546E7A; border-radius: 4px; padding: 10px 15px; margin-bottom: 12px; font-family: "Microsoft JhengHei"; }
.traffic-card-title { color: #ecf0f1; font-size: 18px; font-weight: normal; margin-bottom: 8px; border-bottom: 1px solid #455a64; display: inline-block; padding-right: 10px; padding-bottom: 2px; }
.traffic-row { display: block; font-size: 24px; font-weight: bold; margin-bottom: 5px; text-decoration: none !important; }
.traffic-row:hover { opacity: 0.8; }
.text-gold { color: #ffca28 !important; }
.text-cyan { color: #26c6da !important; }
.text-green { color: #2ecc71; }
.text-red { color: #ff5252 !important; }
.text-white { color: #ffffff; }
.columns { display: flex; gap: 24px; }
.column { flex: 1; }
.age { color: #7f8c8d; font-size: 13px; font-weight: normal; }
.hint { color: #7f8c8d; font-size: 14px; }
button, .link-button { font-family: "Microsoft JhengHei"; font-weight: bold; border-radius: 5px; }
.refresh { width: 100%; padding: 10px; font-size: 18px; margin-bottom: 12px; }
.link-button { display: block; text-align: center; background-color: #e74c3c; color: white; font-size: 16px; padding: 8px; text-decoration: none; }
footer { display: flex; gap: 24px; border-top: 1px solid #ccc; margin-top: 16px; padding-top: 12px; }
</style>
</head>
<body data-snapshot="{{.ID}}">
<div class="main-title">四維家族 專屬工具箱</div>
<form method="post" action="/refresh"><button class="refresh" type="submit">🔄 點擊手動更新所有即時資訊 (時間/路況/天氣)</button></form>
<div class="columns">
  <div class="column">
    <div class="columns">
      <div class="column">
        <div class="section-title">世界時間 (Live)</div>
        <div class="data-box text-gold">{{.Clock.HTML}}</div>
        <div class="section-title">即時匯率 (台銀)</div>
        <div class="data-box text-green">{{.Currency.HTML}}{{with .Currency.Age}}<div class="age">updated {{.}}</div>{{end}}</div>
      </div>
      <div class="column">
        <div class="section-title">即時氣溫 &amp; 降雨率</div>
        <div class="data-box text-cyan" style="font-size: 22px;">{{.Weather.HTML}}{{with .Weather.Age}}<div class="age">updated {{.}}</div>{{end}}</div>
      </div>
    </div>
    <div class="section-title">今日即時油價 (中油)</div>
    <div class="data-box text-red" style="text-align: center;">{{.Fuel.HTML}}{{with .Fuel.Age}}<div class="age">updated {{.}}</div>{{end}}</div>
  </div>
  <div class="column">
    <div class="section-title">即時路況 (Google Map)</div>
    <span class="hint">※ 點擊下方文字可直接開啟 Google 地圖導航</span>
    {{range .Routes}}
    <div class="traffic-card">
      <div class="traffic-card-title">{{.Name}}</div>
      {{range .Rows}}<a href="{{.Link}}" target="_blank" class="traffic-row {{.Color}}">{{.Text}}</a>
      {{end}}
    </div>
    {{end}}
  </div>
</div>
<footer>
  <div style="flex: 1;"><a class="link-button" href="{{.ConverterURL}}" target="_blank">{{.ConverterLabel}}</a></div>
  <div style="flex: 4; margin-top: 10px; color: #7f8c8d; font-size: 16px;">← 點擊左側按鈕開啟轉檔 | ※ 點擊路況文字可直接開啟 Google 地圖</div>
</footer>
</body>
</html>
`))
