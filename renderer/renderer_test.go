package renderer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/source"
)

var english = Options{Currency: "INR", Format: holdings.NewNumberFormat(language.English)}

func sample() []holdings.Holding {
	return []holdings.Holding{
		{Stock: "HDFC Bank", Symbol: "HDFCBANK", PurchasePrice: 1490, Qty: 10, Investment: 14900, CMP: 1700, PresentValue: 17000, GainLoss: 2100, PERatio: holdings.Number(18.2), LatestEarnings: holdings.Text("N/A")},
		{Stock: "Affle India", Symbol: "AFFLE", Qty: 5, Investment: 5000, PresentValue: 4500, GainLoss: -500},
		{Stock: "ICICI Bank", Symbol: "ICICIBANK", Qty: 2, Investment: 2000, PresentValue: 2600, GainLoss: 600},
	}
}

func ready(list []holdings.Holding) source.State {
	return source.State{Status: source.Ready, Holdings: list, UpdatedAt: time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC)}
}

func TestNewDashboard(t *testing.T) {
	d := NewDashboard(ready(sample()), nil, "")

	if !d.HasData() {
		t.Fatalf("HasData() = false, message %q", d.Message)
	}
	if got, want := d.Categories, []string{"All", "Financial Sector", "Tech Sector"}; !cmp.Equal(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
	if d.Selected != "All" || len(d.Groups) != 2 {
		t.Fatalf("Selected = %q with %d groups, want All with 2", d.Selected, len(d.Groups))
	}
	fin := d.Groups[0]
	if fin.Category != "Financial Sector" || fin.Stocks != 2 || fin.PresentValue != 19600 || fin.Investment != 16900 {
		t.Errorf("Groups[0] = %+v", fin)
	}
	if got, want := fin.Weight, 19600.0/24100*100; got != want {
		t.Errorf("Groups[0].Weight = %v, want %v", got, want)
	}
	if fin.Rows[1].Stock != "ICICI Bank" || fin.Rows[1].Category != "Financial Sector" {
		t.Errorf("Groups[0].Rows[1] = %+v", fin.Rows[1])
	}
	if d.TotalPresentValue != 24100 || d.TotalGainLoss != 2200 {
		t.Errorf("totals = %v / %v, want 24100 / 2200", d.TotalPresentValue, d.TotalGainLoss)
	}

	tech := NewDashboard(ready(sample()), nil, "Tech Sector")
	if len(tech.Groups) != 1 || tech.Groups[0].Category != "Tech Sector" {
		t.Errorf("Tech Sector groups = %+v", tech.Groups)
	}
	// weights stay relative to the whole portfolio.
	if got, want := tech.Groups[0].Weight, 4500.0/24100*100; got != want {
		t.Errorf("Tech Sector weight = %v, want %v", got, want)
	}
}

func TestNewDashboard_Messages(t *testing.T) {
	down := errors.New("request failed: 503")
	tests := []struct {
		name    string
		state   source.State
		message string
	}{
		{"loading", source.State{Status: source.Loading}, MsgLoading},
		{"failed", source.State{Status: source.Failed, Err: down}, MsgFailed},
		{"empty", ready([]holdings.Holding{}), MsgEmpty},
		{"stale", source.State{Status: source.Ready, Holdings: sample(), Err: down, Stale: true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDashboard(tt.state, nil, "")
			if d.Message != tt.message {
				t.Errorf("Message = %q, want %q", d.Message, tt.message)
			}
			if d.Groups == nil {
				t.Errorf("Groups is nil, want a list")
			}
		})
	}
}

func TestRenderDashboard(t *testing.T) {
	md := RenderDashboard(NewDashboard(ready(sample()), nil, ""), english)

	for _, want := range []string{
		"# Portfolio\n",
		"*Updated ",
		"| ₹21,900.00 | ₹24,100.00 | +₹2,200.00 |",
		"## Financial Sector",
		"**Stocks:** 2 · **Category Weight:** 81.3% · **Total Investment:** 16,900 · **Total Present Value:** 19,600 · **Gain/Loss:** 2,700",
		"| HDFC Bank | HDFCBANK | Financial Sector | 1,490 | 10 | 14,900 | 1,700 | 17,000 | 2,100 | 18.2 | - |",
		"## Tech Sector",
		"**Gain/Loss:** -500",
		"| Affle India | AFFLE | Tech Sector | 0 | 5 | 5,000 | 0 | 4,500 | -500 | - | - |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderDashboard() does not contain %q\ngot:\n%s", want, md)
		}
	}
	if strings.Contains(md, "error") {
		t.Errorf("RenderDashboard() reports a template error:\n%s", md)
	}
}

func TestRenderDashboard_Messages(t *testing.T) {
	tests := []struct {
		state source.State
		want  []string
	}{
		{source.State{Status: source.Loading}, []string{"# Portfolio", MsgLoading}},
		{source.State{Status: source.Failed, Err: errors.New("request failed: 500")}, []string{MsgFailed, "> request failed: 500"}},
		{ready(nil), []string{MsgEmpty}},
		{source.State{Status: source.Ready, Holdings: sample(), Err: errors.New("timeout"), Stale: true, UpdatedAt: time.Now()}, []string{"(stale)", "> Last refresh failed: timeout", "## Tech Sector"}},
	}
	for _, tt := range tests {
		md := RenderDashboard(NewDashboard(tt.state, nil, ""), english)
		for _, want := range tt.want {
			if !strings.Contains(md, want) {
				t.Errorf("RenderDashboard(%v) does not contain %q\ngot:\n%s", tt.state.Status, want, md)
			}
		}
	}
}

func TestRenderDashboard_Selected(t *testing.T) {
	md := RenderDashboard(NewDashboard(ready(sample()), nil, "Power"), english)
	if !strings.HasPrefix(md, "# Portfolio: Power") {
		t.Errorf("RenderDashboard() title = %q", strings.SplitN(md, "\n", 2)[0])
	}
	if strings.Contains(md, "## ") {
		t.Errorf("RenderDashboard() shows groups for an absent category:\n%s", md)
	}
}

func TestRenderDashboard_EscapesCells(t *testing.T) {
	list := []holdings.Holding{{Stock: "A|B", Sector: "X", PresentValue: 1, PERatio: holdings.Text("n|a")}}
	md := RenderDashboard(NewDashboard(ready(list), nil, ""), english)
	if !strings.Contains(md, `| A\|B |`) || !strings.Contains(md, `| n\|a |`) {
		t.Errorf("cells are not escaped:\n%s", md)
	}
}

func TestRenderDashboard_EscapesMarkdown(t *testing.T) {
	list := []holdings.Holding{{Stock: "*Bold* [link](x)", Sector: "_Tech_ `code`", PresentValue: 1}}
	md := RenderDashboard(NewDashboard(ready(list), nil, ""), english)
	for _, want := range []string{`\*Bold\* \[link\](x)`, "## \\_Tech\\_ \\`code\\`"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderDashboard() does not contain %q:\n%s", want, md)
		}
	}
}

func TestRenderDashboard_ZeroGainLoss(t *testing.T) {
	list := []holdings.Holding{
		{Stock: "HDFC Bank", Investment: 100, PresentValue: 110, GainLoss: 10},
		{Stock: "Tanla", Investment: 100, PresentValue: 90, GainLoss: -10},
	}
	md := RenderDashboard(NewDashboard(ready(list), nil, ""), english)
	if want := "| ₹200.00 | ₹200.00 | ₹0.00 |"; !strings.Contains(md, want) {
		t.Errorf("RenderDashboard() does not contain %q:\n%s", want, md)
	}
}

func TestWriteHTML_EscapesData(t *testing.T) {
	list := []holdings.Holding{{
		Stock:        "<img src=x onerror=alert(1)>",
		Sector:       "<script>alert(2)</script>",
		PresentValue: 1,
		PERatio:      holdings.Text("<b>high</b>"),
	}}
	st := ready(list)
	st.Err = errors.New("<iframe src=evil>")
	st.Stale = true

	var b bytes.Buffer
	if err := WriteHTML(&b, NewDashboard(st, nil, "<script>alert(3)</script>"), english, "dark"); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	page := b.String()
	for _, raw := range []string{"<img", "<script>", "<b>high", "<iframe"} {
		if strings.Contains(page, raw) {
			t.Errorf("WriteHTML() contains raw markup %q", raw)
		}
	}
	for _, want := range []string{"&lt;script&gt;alert(2)&lt;/script&gt;", "&lt;img src=x onerror=alert(1)&gt;"} {
		if !strings.Contains(page, want) {
			t.Errorf("WriteHTML() does not contain the escaped %q", want)
		}
	}

	// the numbers still get their gain/loss markup.
	if !strings.Contains(page, `<span class="gain">`) {
		t.Errorf("WriteHTML() lost the gain span")
	}
}

func TestDashboardJSON(t *testing.T) {
	d := NewDashboard(source.State{Status: source.Loading}, nil, "")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"status":"loading","message":"Loading…","selected":"All","categories":["All"],"totalInvestment":0,"totalPresentValue":0,"totalGainLoss":0,"groups":[]}`
	if got := string(data); got != want {
		t.Errorf("json.Marshal() = %s, want %s", got, want)
	}
}

func TestRenderTerminal(t *testing.T) {
	md := RenderDashboard(NewDashboard(ready(sample()), nil, ""), english)
	for _, theme := range Themes {
		out, err := RenderTerminal(md, theme, 160)
		if err != nil {
			t.Fatalf("RenderTerminal(%s) error = %v", theme, err)
		}
		if !strings.Contains(out, "Portfolio") {
			t.Errorf("RenderTerminal(%s) lost the title:\n%s", theme, out)
		}
	}
	if _, err := RenderTerminal(md, "sepia", 80); err == nil {
		t.Errorf("RenderTerminal(sepia) should fail")
	}
}

func TestWriteHTML(t *testing.T) {
	var b bytes.Buffer
	if err := WriteHTML(&b, NewDashboard(ready(sample()), nil, "Tech Sector"), english, "light"); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	page := b.String()
	for _, want := range []string{
		`<html lang="en" class="light">`,
		`<option value="Tech Sector" selected>Tech Sector</option>`,
		`<table>`,
		`<h2>Tech Sector</h2>`,
		`<span class="loss">-500</span>`,
		`dark theme</a>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("WriteHTML() does not contain %q", want)
		}
	}

	if err := WriteHTML(&b, NewDashboard(ready(sample()), nil, ""), english, "sepia"); err == nil {
		t.Errorf("WriteHTML(sepia) should fail")
	}
}

func TestWriteChart(t *testing.T) {
	d := NewDashboard(ready(sample()), nil, "")

	var svg bytes.Buffer
	if err := WriteChart(&svg, d, english, "svg"); err != nil {
		t.Fatalf("WriteChart(svg) error = %v", err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Errorf("WriteChart(svg) did not write an svg document")
	}

	var png bytes.Buffer
	if err := WriteChart(&png, d, english, "PNG"); err != nil {
		t.Fatalf("WriteChart(png) error = %v", err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Errorf("WriteChart(png) did not write a png image")
	}

	if err := WriteChart(&png, d, english, "gif"); err == nil {
		t.Errorf("WriteChart(gif) should fail")
	}
	empty := NewDashboard(ready(nil), nil, "")
	if err := WriteChart(&png, empty, english, "svg"); !errors.Is(err, ErrNoChartData) {
		t.Errorf("WriteChart() on no data error = %v, want ErrNoChartData", err)
	}
}
