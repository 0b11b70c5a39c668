package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/eggy/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"held": func(b bool) string {
		if b {
			return "held"
		}
		return "-"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Ready}}{{.View.Pet.Name}}{{else}}Eggy{{end}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.face { font-size: 3em; text-align: center; margin: 0.5em 0; }
.dead { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; background: orange; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
</style>
</head>
<body>
<h1>{{if .Ready}}{{.View.Pet.Name}}{{else}}Eggy{{end}}<span id="live-dot" class="live-dot" title="connecting"></span></h1>

{{if .Ready}}
<div id="face" class="face{{if not .View.Pet.Alive}} dead{{end}}">{{.View.Glyph}}</div>
<p id="status-line">{{.View.StatusLine}}</p>

<h2>Vitals</h2>
<table>
<tr><th>State</th><td id="pet-state">{{.View.Pet.State}}</td></tr>
<tr><th>Age</th><td id="pet-age">{{.View.Pet.Age}}s</td></tr>
<tr><th>Hunger</th><td id="pet-hunger">{{.View.Pet.Hunger}}</td></tr>
<tr><th>Happiness</th><td id="pet-happiness">{{.View.Pet.Happiness}}</td></tr>
<tr><th>Cleanliness</th><td id="pet-cleanliness">{{.View.Pet.Cleanliness}}</td></tr>
<tr><th>Energy</th><td id="pet-energy">{{.View.Pet.Energy}}</td></tr>
<tr><th>Health</th><td id="pet-health">{{.View.Pet.Health}}</td></tr>
<tr><th>Discipline</th><td id="pet-discipline">{{.View.Pet.Discipline}}</td></tr>
<tr><th>Menu</th><td id="pet-menu">{{if .View.MenuOpen}}&gt; {{.View.MenuItem}}{{else}}closed{{end}}</td></tr>
</table>
{{else}}
<p>Waiting for the first frame...</p>
{{end}}

<h2>Buttons</h2>
<table>
<tr><th>Left</th><td id="btn-left">{{held (index .Held 0)}}</td></tr>
<tr><th>Middle</th><td id="btn-middle">{{held (index .Held 1)}}</td></tr>
<tr><th>Right</th><td id="btn-right">{{held (index .Held 2)}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tone</th><td>{{.Config.Tone}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var dot = document.getElementById("live-dot");
  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }
  function setText(id, v) {
    var el = document.getElementById(id);
    if (el) { el.textContent = v; }
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "offline");
      setTimeout(connect, 5000);
    };
    ws.onmessage = function(ev) {
      try {
        var s = JSON.parse(ev.data).status;
        if (!s.ready) { return; }
        var p = s.pet;
        setText("face", p.glyph);
        setText("status-line", p.status_line);
        setText("pet-state", p.state);
        setText("pet-age", p.age + "s");
        setText("pet-hunger", p.hunger);
        setText("pet-happiness", p.happiness);
        setText("pet-cleanliness", p.cleanliness);
        setText("pet-energy", p.energy);
        setText("pet-health", p.health);
        setText("pet-discipline", p.discipline);
        setText("pet-menu", p.menu_open ? "> " + p.menu_item : "closed");
        setText("btn-left", s.buttons.left ? "held" : "-");
        setText("btn-middle", s.buttons.middle ? "held" : "-");
        setText("btn-right", s.buttons.right ? "held" : "-");
      } catch (e) {}
    };
  }
  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() and Ready() methods but the template is simpler
	// with plain fields.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Ready  bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Ready:    snap.Ready(),
	}
	return indexTmpl.Execute(w, data)
}
