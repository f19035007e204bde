package leaflet

import "html/template"

const (
	leafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	leafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"

	clusterCSS        = "https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css"
	clusterDefaultCSS = "https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css"
	clusterJS         = "https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"

	awesomeMarkersCSS = "https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.css"
	awesomeMarkersJS  = "https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.js"
	fontAwesomeCSS    = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/4.7.0/css/font-awesome.min.css"

	heatJS = "https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"
)

// Tiles describes a raster base layer.
type Tiles struct {
	URL         string
	Attribution string
}

var (
	cartoPositron = Tiles{
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
	}
	openStreetMap = Tiles{
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	}
)

// markerJSON is the per-pin payload embedded in the cluster map.
type markerJSON struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// heatOptions mirrors the Leaflet.heat layer options.
type heatOptions struct {
	Radius     float64 `json:"radius"`
	Blur       float64 `json:"blur"`
	MinOpacity float64 `json:"minOpacity"`
}

// page is the data passed to pageTemplate. Exactly one of Markers or Heat is set.
type page struct {
	Title       string
	Generated   string
	Caption     string
	Stylesheets []string
	Scripts     []string
	Lat, Lon    float64
	Zoom        int
	Tiles       Tiles

	Markers       []markerJSON
	PopupMaxWidth int

	Heat        [][2]float64
	HeatOptions heatOptions
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generated" content="{{.Generated}}">
<title>{{.Title}}</title>
{{- range .Stylesheets}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
{{- range .Scripts}}
<script src="{{.}}"></script>
{{- end}}
<style>
html, body { width: 100%; height: 100%; margin: 0; padding: 0; }
#map { position: absolute; top: 0; bottom: 0; right: 0; left: 0; }
.caption { position: absolute; bottom: 24px; left: 12px; z-index: 1000; padding: 4px 8px;
  background: rgba(255, 255, 255, 0.85); border-radius: 4px; font: 13px sans-serif; }
</style>
</head>
<body>
<div id="map"></div>
<div class="caption">{{.Caption}}</div>
<script>
var map = L.map("map").setView([{{.Lat}}, {{.Lon}}], {{.Zoom}});
L.tileLayer({{.Tiles.URL}}, {attribution: {{.Tiles.Attribution}}, maxZoom: 19}).addTo(map);
{{- if .Markers}}
var icon = L.AwesomeMarkers.icon({icon: "car", prefix: "fa", markerColor: "red", iconColor: "white"});
var cluster = L.markerClusterGroup();
{{.Markers}}.forEach(function (m) {
  L.marker([m.lat, m.lon], {icon: icon}).bindPopup(m.popup, {maxWidth: {{.PopupMaxWidth}}}).addTo(cluster);
});
map.addLayer(cluster);
{{- end}}
{{- if .Heat}}
L.heatLayer({{.Heat}}, {{.HeatOptions}}).addTo(map);
{{- end}}
</script>
</body>
</html>
`))
