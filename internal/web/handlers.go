package web

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"cueplay/internal/media"
	"cueplay/internal/schedule"
)

// indexData feeds the scheduling form template.
type indexData struct {
	Flashes       []flashMessage
	DeviceError   string
	Devices       []media.Device
	CurrentVolume *int
	Jobs          []schedule.JobRecord
	JobsNote      string
}

// fetchDevices lists devices sorted by lowercased name. A nil service or
// a fetch failure degrades to a warning; the form must render regardless.
func (s *Server) fetchDevices(r *http.Request) ([]media.Device, string) {
	if s.svc == nil {
		return nil, "Spotify is not configured or not authenticated; device list unavailable."
	}
	devices, err := s.svc.Devices(r.Context())
	if err != nil {
		return nil, "Unable to load Spotify devices: " + err.Error()
	}
	sort.SliceStable(devices, func(i, j int) bool {
		return strings.ToLower(devices[i].Name) < strings.ToLower(devices[j].Name)
	})
	return devices, ""
}

// currentVolume reads the active device's volume for prefilling the form.
// Absence is fine; the input just renders empty.
func (s *Server) currentVolume(r *http.Request) *int {
	if s.svc == nil {
		return nil
	}
	volume, err := s.svc.CurrentVolume(r.Context())
	if err != nil {
		return nil
	}
	return &volume
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	devices, deviceError := s.fetchDevices(r)

	data := indexData{
		Flashes:       s.takeFlashes(w, r),
		DeviceError:   deviceError,
		Devices:       devices,
		CurrentVolume: s.currentVolume(r),
	}
	data.Jobs, data.JobsNote = s.jobs.List(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("template render failed")
	}
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	mediaInput := strings.TrimSpace(r.PostFormValue("media"))
	deviceName := strings.TrimSpace(r.PostFormValue("device"))
	isoAt := strings.TrimSpace(r.PostFormValue("iso_at"))
	dateInput := strings.TrimSpace(r.PostFormValue("date"))
	timeInput := strings.TrimSpace(r.PostFormValue("time"))
	volumeInput := strings.TrimSpace(r.PostFormValue("volume"))

	// Collect every validation problem; the user fixes them in one pass.
	var errs []string

	var ref media.Reference
	if mediaInput == "" {
		errs = append(errs, "Media is required.")
	} else {
		var err error
		ref, err = media.ParseReference(mediaInput)
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	var volume *int
	if volumeInput != "" {
		n, err := strconv.Atoi(volumeInput)
		if err != nil || n < 0 || n > 100 {
			errs = append(errs, "Volume must be an integer between 0 and 100.")
		} else {
			volume = &n
		}
	}

	var target time.Time
	if isoAt == "" && timeInput == "" {
		errs = append(errs, "Provide either an ISO timestamp or both date and time.")
	} else {
		var err error
		target, err = schedule.Resolve(schedule.ResolveInput{
			At:   isoAt,
			Time: timeInput,
			Date: dateInput,
		}, s.now())
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		for _, msg := range errs {
			s.flash(w, r, "error", msg)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	spec := schedule.Spec{
		Target: target,
		Media:  ref,
		Device: deviceName,
		Volume: volume,
	}

	label, err := s.sched.Submit(r.Context(), target, spec)
	if err != nil {
		s.flash(w, r, "error", err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.log.Info().
		Str("media", ref.URI()).
		Time("target", target).
		Str("label", label).
		Msg("scheduled job from web form")
	s.flash(w, r, "success", "Created "+label+" for "+target.Format("2006-01-02 15:04:05")+".")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	ok, msg := s.jobs.Remove(r.Context(), jobID)
	category := "success"
	if !ok {
		category = "error"
	}
	s.flash(w, r, category, msg)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
