package statement

import (
	"time"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"
	"github.com/ignaciocaff/procstmt/pkg/logging"
)

// Profile is one timed execution.
type Profile struct {
	ID          uuid.UUID
	Statement   uuid.UUID
	SQL         string
	Fingerprint uint64
	Procedure   string
	Parameters  map[string]interface{}
	Start       time.Time
	End         time.Time
	Elapsed     time.Duration
}

// Recorder is a Profiler that keeps every completed profile in memory.
type Recorder struct {
	profiles []Profile
	current  *Profile
	logger   *logging.Logger
	now      func() time.Time
}

func NewRecorder(logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Recorder{logger: logger, now: time.Now}
}

func (r *Recorder) ProfilerStart(st *Statement) {
	p := &Profile{
		ID:          uuid.New(),
		Statement:   st.ID(),
		SQL:         st.SQL(),
		Fingerprint: xxhash.Sum64String(st.SQL()),
		Procedure:   st.Procedure(),
		Start:       r.now(),
	}
	if c := st.ParameterContainer(); c != nil {
		p.Parameters = c.NamedMap()
	}
	r.current = p
}

func (r *Recorder) ProfilerFinish() {
	if r.current == nil {
		return
	}
	p := r.current
	r.current = nil
	p.End = r.now()
	p.Elapsed = p.End.Sub(p.Start)
	r.profiles = append(r.profiles, *p)
	r.logger.Debug("statement profiled",
		"profile", p.ID, "fingerprint", p.Fingerprint, "procedure", p.Procedure, "elapsed", p.Elapsed)
}

// Profiles returns the completed profiles, oldest first.
func (r *Recorder) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// LastProfile returns the most recent completed profile.
func (r *Recorder) LastProfile() (Profile, bool) {
	if len(r.profiles) == 0 {
		return Profile{}, false
	}
	return r.profiles[len(r.profiles)-1], true
}
