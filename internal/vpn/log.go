package vpn

import (
	"regexp"
	"sort"
	"time"
)

// ConnectionRecord es el estado de conexión derivado para un certificado.
// Se recalcula contra el log completo en cada consulta; nunca se persiste.
type ConnectionRecord struct {
	ID           string    `json:"id"`
	Connected    bool      `json:"connected"`
	HardwareAddr string    `json:"addr,omitempty"`
	ObservedAt   time.Time `json:"-"`
}

const (
	// Timestamps del log de OpenVPN: "2024-03-05 17:32:11".
	tsPattern     = `([2-9][0-9]{3}-[0-1][0-9]-[0-9]{1,2} [0-2][0-9]:[0-5][0-9]:[0-5][0-9])`
	peerPattern   = `([0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}:[0-9]{4,6})`
	hwPattern     = `([a-z0-9]{2}:[a-z0-9]{2}:[a-z0-9]{2}:[a-z0-9]{2}:[a-z0-9]{2}:[a-z0-9]{2})`
	tsParseLayout = "2006-1-2 15:04:05"
)

type logEvent struct {
	at        time.Time
	connected bool
	peer      string
}

// ParseConnectionState deriva el estado de conexión de un certificado a
// partir del texto crudo del log. Es una función pura: el mismo log y el
// mismo id siempre producen el mismo resultado. Líneas con timestamps
// malformados se saltean, nunca abortan el escaneo.
func ParseConnectionState(logText, id string) ConnectionRecord {
	quoted := regexp.QuoteMeta(id)
	connectRE := regexp.MustCompile(tsPattern + `.+\[` + quoted + `\] Peer Connection Initiated with \[AF_INET\]` + peerPattern)
	disconnectRE := regexp.MustCompile(tsPattern + ` ` + quoted + `.+client-instance exiting`)

	var events []logEvent
	for _, m := range connectRE.FindAllStringSubmatch(logText, -1) {
		at, err := time.Parse(tsParseLayout, m[1])
		if err != nil {
			continue
		}
		events = append(events, logEvent{at: at, connected: true, peer: m[2]})
	}
	for _, m := range disconnectRE.FindAllStringSubmatch(logText, -1) {
		at, err := time.Parse(tsParseLayout, m[1])
		if err != nil {
			continue
		}
		events = append(events, logEvent{at: at, connected: false})
	}

	rec := ConnectionRecord{ID: id}
	if len(events) == 0 {
		return rec
	}

	// Más reciente primero; ante empate gana el evento visto después en el log.
	sort.SliceStable(events, func(i, j int) bool { return events[i].at.After(events[j].at) })
	rec.Connected = events[0].connected
	rec.ObservedAt = events[0].at

	// La MAC sale de la línea "peer info" más reciente cuyo peer coincide con
	// la última conexión, tenga o no el certificado una desconexión posterior.
	peer := ""
	for _, ev := range events {
		if ev.connected {
			peer = ev.peer
			break
		}
	}
	if peer == "" {
		return rec
	}
	hwRE := regexp.MustCompile(tsPattern + ` ` + regexp.QuoteMeta(peer) + ` peer info: IV_HWADDR=` + hwPattern)
	var hwAt time.Time
	for _, m := range hwRE.FindAllStringSubmatch(logText, -1) {
		at, err := time.Parse(tsParseLayout, m[1])
		if err != nil {
			continue
		}
		if rec.HardwareAddr == "" || at.After(hwAt) {
			rec.HardwareAddr = m[2]
			hwAt = at
		}
	}
	return rec
}
