package server

// Page templates, keyed by name. Kept as embedded strings so the
// binary is self-contained.
var pageTemplates = map[string]string{
	"decks": `<!DOCTYPE html>
<html>
<head><title>mnemo - decks</title></head>
<body>
<h1>Decks</h1>
<form method="POST" action="/load">
<ul>
{{range .Decks}}
	<li>
		<label>
			<input type="checkbox" name="deck" value="{{.Name}}">
			{{.Name}} ({{.Due}} due of {{.Total}})
		</label>
	</li>
{{end}}
</ul>
<button type="submit">Start review</button>
</form>
<p><a href="/stats">Statistics</a></p>
</body>
</html>
`,

	"review": `<!DOCTYPE html>
<html>
<head><title>mnemo - review</title></head>
<body>
{{if .Done}}
<h1>Session complete</h1>
<p><a href="/">Back to decks</a> &middot; <a href="/stats">Statistics</a></p>
{{else}}
<p>{{.Remaining}} card(s) remaining</p>
<div class="front">{{markdown .Front}}</div>
{{if .ShowAnswer}}
<hr>
<div class="back">{{markdown .Back}}</div>
<form method="POST" action="/rate">
{{range .Ratings}}
	<button type="submit" name="rating" value="{{.}}">{{.}}</button>
{{end}}
</form>
{{else}}
<p><a href="/review?answer=1">Show answer</a></p>
{{end}}
<details>
<summary>Add a card</summary>
<form method="POST" action="/cards">
	<input name="front" placeholder="Front">
	<input name="back" placeholder="Back">
	<button type="submit">Add</button>
</form>
</details>
{{end}}
</body>
</html>
`,

	"stats": `<!DOCTYPE html>
<html>
<head><title>mnemo - statistics</title></head>
<body>
<h1>Statistics</h1>
<table>
<tr><td>Total cards</td><td>{{.TotalCards}}</td></tr>
<tr><td>New</td><td>{{.NewCards}}</td></tr>
<tr><td>Learning</td><td>{{.LearningCards}}</td></tr>
<tr><td>Young</td><td>{{.YoungCards}}</td></tr>
<tr><td>Mature</td><td>{{.MatureCards}}</td></tr>
<tr><td>Due today</td><td>{{.DueToday}}</td></tr>
<tr><td>Due tomorrow</td><td>{{.DueTomorrow}}</td></tr>
<tr><td>Due next 7 days</td><td>{{.DueNext7Days}}</td></tr>
<tr><td>Average interval</td><td>{{.AverageIntervalAll}}d</td></tr>
<tr><td>Average interval (mature)</td><td>{{.AverageIntervalMature}}d</td></tr>
<tr><td>Longest interval</td><td>{{.LongestInterval}}d</td></tr>
<tr><td>Average ease</td><td>{{.AverageEase}}</td></tr>
<tr><td>Total reviews</td><td>{{.TotalReviews}}</td></tr>
<tr><td>Total lapses</td><td>{{.TotalLapses}}</td></tr>
</table>

<h2>Due forecast</h2>
<table>
{{range .Forecast}}
<tr><td>{{.Date}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>

<h2>Intervals</h2>
<table>
{{range .IntervalDistribution}}
<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>

<h2>Ease</h2>
<table>
{{range .EaseDistribution}}
<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>

<p><a href="/">Back to decks</a></p>
</body>
</html>
`,
}
