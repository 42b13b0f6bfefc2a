package server

import (
	"encoding/csv"
	"math"
	"net/http"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ahmadzendi/monitor-emas7/internal/state"
)

// createdAtLayout is the timestamp format the treasury API uses.
const createdAtLayout = "2006-01-02 15:04:05"

func (s *Server) exportWindow(r *http.Request) []state.GoldObservation {
	max := s.opts.MaxExportPoints
	if raw := r.URL.Query().Get("points"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 && n < max {
			max = n
		}
	}
	return downsample(s.st.GoldHistory(), max)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	window := s.exportWindow(r)
	if len(window) < 2 {
		http.Error(w, "not enough data", http.StatusNotFound)
		return
	}

	buying := make([]float64, len(window))
	selling := make([]float64, len(window))
	for i, obs := range window {
		buying[i] = float64(obs.BuyingRate)
		selling[i] = float64(obs.SellingRate)
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		YAxis: chart.YAxis{
			Name: "Rate (IDR/gram)",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
	}

	// Upstream timestamps are strings; chart on the time axis when they all
	// parse, else fall back to the arrival index.
	if xs, ok := parseTimes(window); ok {
		graph.XAxis = chart.XAxis{ValueFormatter: chart.TimeValueFormatter}
		graph.Series = []chart.Series{
			chart.TimeSeries{Name: "Buying", XValues: xs, YValues: buying},
			chart.TimeSeries{Name: "Selling", XValues: xs, YValues: selling},
		}
	} else {
		idx := make([]float64, len(window))
		for i := range idx {
			idx[i] = float64(i)
		}
		graph.Series = []chart.Series{
			chart.ContinuousSeries{Name: "Buying", XValues: idx, YValues: buying},
			chart.ContinuousSeries{Name: "Selling", XValues: idx, YValues: selling},
		}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	w.Header().Set("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, w); err != nil {
		s.logger.Error().Err(err).Msg("failed to render chart")
	}
}

func (s *Server) handleHistoryCSV(w http.ResponseWriter, r *http.Request) {
	window := s.exportWindow(r)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"created_at", "buying_rate", "selling_rate", "status"}); err != nil {
		return
	}
	for _, obs := range window {
		record := []string{
			obs.CreatedAt,
			strconv.FormatInt(obs.BuyingRate, 10),
			strconv.FormatInt(obs.SellingRate, 10),
			obs.Status,
		}
		if err := writer.Write(record); err != nil {
			return
		}
	}
}

func parseTimes(window []state.GoldObservation) ([]time.Time, bool) {
	xs := make([]time.Time, len(window))
	for i, obs := range window {
		ts, err := time.Parse(createdAtLayout, obs.CreatedAt)
		if err != nil {
			return nil, false
		}
		xs[i] = ts
	}
	return xs, true
}

func downsample(window []state.GoldObservation, max int) []state.GoldObservation {
	if max <= 0 || len(window) <= max {
		return window
	}

	result := make([]state.GoldObservation, 0, max)
	step := float64(len(window)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(window) {
			idx = len(window) - 1
		}
		result = append(result, window[idx])
	}
	return result
}
