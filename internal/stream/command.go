package stream

import (
	"errors"
	"fmt"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Client command ops.
const (
	OpSpawn    = "spawn"
	OpDelete   = "delete"
	OpSpeed    = "speed"
	OpRename   = "rename"
	OpSelect   = "select"
	OpDeselect = "deselect"
	OpWarp     = "warp"
)

var (
	ErrUnknownOp    = errors.New("stream: unknown op")
	ErrRegistryFull = errors.New("stream: registry is full")
	ErrNothingToDo  = errors.New("stream: nothing to delete")
	ErrWarpLimit    = errors.New("stream: warp already at limit")
)

// Command is one client request. Fields beyond Op are read per op.
type Command struct {
	Op    string  `json:"op"`
	ID    body.ID `json:"id,omitempty"`
	Kind  string  `json:"kind,omitempty"`
	Speed float64 `json:"speed,omitempty"`
	Name  string  `json:"name,omitempty"`
	Dir   string  `json:"dir,omitempty"`

	client *client
}

// Result is sent back to the issuing connection.
type Result struct {
	Op    string  `json:"op"`
	OK    bool    `json:"ok"`
	ID    body.ID `json:"id,omitempty"`
	Error string  `json:"error,omitempty"`
}

// Apply runs c against eng. It must be called from the frame goroutine.
func Apply(eng *dynamo.Engine, c Command) Result {
	id, err := apply(eng, c)
	r := Result{Op: c.Op, OK: err == nil, ID: id}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func apply(eng *dynamo.Engine, c Command) (body.ID, error) {
	switch c.Op {
	case OpSpawn:
		var kind *body.Kind
		if c.Kind != "" {
			k, err := body.ParseKind(c.Kind)
			if err != nil {
				return 0, err
			}
			kind = &k
		}
		id, ok := eng.Spawn(kind)
		if !ok {
			return 0, ErrRegistryFull
		}
		return id, nil

	case OpDelete:
		id, ok := eng.DeleteOutermost()
		if !ok {
			return 0, ErrNothingToDo
		}
		return id, nil

	case OpSpeed:
		return c.ID, eng.SetSpeed(c.ID, c.Speed)

	case OpRename:
		return c.ID, eng.Rename(c.ID, c.Name)

	case OpSelect:
		return c.ID, eng.Select(c.ID)

	case OpDeselect:
		eng.ClearSelection()
		return 0, nil

	case OpWarp:
		var ok bool
		switch c.Dir {
		case "up":
			ok = eng.WarpUp()
		case "down":
			ok = eng.WarpDown()
		default:
			return 0, fmt.Errorf("warp dir %q: want up or down", c.Dir)
		}
		if !ok {
			return 0, ErrWarpLimit
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOp, c.Op)
}
