package probe

import "time"

// The attach protocol is line-delimited JSON over a unix socket. A client
// sends exactly one request; for "list" the server answers with the probe
// listing and closes, for "subscribe" the server streams wireEvent lines
// until either side disconnects.

type wireRequest struct {
	// Op is "list" or "subscribe".
	Op string `json:"op"`

	// Kinds restricts a subscription to the named probes. Empty means all.
	Kinds []string `json:"kinds,omitempty"`
}

type wireProbe struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

type wireListing struct {
	Provider string      `json:"provider"`
	Probes   []wireProbe `json:"probes"`
}

type wireEvent struct {
	Kind     string  `json:"kind"`
	Arg0     *uint64 `json:"arg0,omitempty"`
	Thread   uint64  `json:"thread"`
	TimeNano int64   `json:"time_ns"`
}

func toWire(ev Event) wireEvent {
	w := wireEvent{
		Kind:     ev.Kind.String(),
		Thread:   ev.Thread,
		TimeNano: ev.Time.UnixNano(),
	}

	if ev.Kind.TaskScoped() {
		id := ev.TaskID
		w.Arg0 = &id
	}

	return w
}

func fromWire(w wireEvent) (Event, bool) {
	k, ok := KindByName(w.Kind)
	if !ok {
		return Event{}, false
	}

	ev := Event{
		Kind:   k,
		Thread: w.Thread,
		Time:   time.Unix(0, w.TimeNano),
	}

	if w.Arg0 != nil {
		ev.TaskID = *w.Arg0
	}

	return ev, true
}

func listing() wireListing {
	l := wireListing{Provider: Namespace()}
	for _, k := range Kinds() {
		l.Probes = append(l.Probes, wireProbe{
			Name: k.String(),
			Args: k.ArgNames(),
		})
	}

	return l
}
