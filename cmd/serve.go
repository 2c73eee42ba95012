package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chorusmith/chorusmith/constants"
	"github.com/chorusmith/chorusmith/db"
	"github.com/chorusmith/chorusmith/log"
	"github.com/chorusmith/chorusmith/midi"
	"github.com/chorusmith/chorusmith/model"
	"github.com/chorusmith/chorusmith/pipeline"
	"github.com/chorusmith/chorusmith/util"
)

const (
	statusQueued     = "queued"
	statusProcessing = "processing"
	statusExtracting = "extracting_melody"
	statusArranging  = "generating_arrangement"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// taskStore keeps task records in memory and, when a table is configured,
// mirrors them to DynamoDB. Writes are debounced: the pipeline updates status
// several times per task and only the latest state needs to be persisted.
type taskStore struct {
	mu        sync.Mutex
	tasks     map[string]db.TaskRecord
	dirty     map[string]bool
	debounced func(f func())
}

func newTaskStore() *taskStore {
	return &taskStore{
		tasks:     make(map[string]db.TaskRecord),
		dirty:     make(map[string]bool),
		debounced: debounce.New(500 * time.Millisecond),
	}
}

func (s *taskStore) put(r db.TaskRecord) {
	s.mu.Lock()
	s.tasks[r.TaskID] = r
	s.dirty[r.TaskID] = true
	s.mu.Unlock()

	if db.Enabled() {
		s.debounced(s.flush)
	}
}

func (s *taskStore) flush() {
	s.mu.Lock()
	var pending []db.TaskRecord
	for id := range s.dirty {
		pending = append(pending, s.tasks[id])
		delete(s.dirty, id)
	}
	s.mu.Unlock()

	for _, r := range pending {
		if err := db.PutTaskRecord(r); err != nil {
			log.Logger.WithError(err).WithField("task_id", r.TaskID).Warn("Could not persist task record")
		}
	}
}

func (s *taskStore) get(taskID string) (db.TaskRecord, bool) {
	s.mu.Lock()
	r, ok := s.tasks[taskID]
	s.mu.Unlock()
	if ok {
		return r, true
	}

	if db.Enabled() {
		r, found, err := db.GetTaskRecord(taskID)
		if err != nil {
			log.Logger.WithError(err).WithField("task_id", taskID).Warn("Could not load task record")
			return db.TaskRecord{}, false
		}
		return r, found
	}

	return db.TaskRecord{}, false
}

var store *taskStore

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the arrangement API",
	Long:  `Serves the arrangement API: upload a transcribed midi file, poll status, download the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Error: detail})
}

func handleArrange(w http.ResponseWriter, r *http.Request) {
	f, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing midi file upload")
		return
	}
	defer f.Close()

	taskID := uuid.New().String()
	uploadPath := filepath.Join(constants.GetOutputDir(), taskID+"_upload.mid")
	dst, err := os.Create(uploadPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not save uploaded file")
		return
	}
	if _, err := io.Copy(dst, f); err != nil {
		dst.Close()
		writeError(w, http.StatusInternalServerError, "could not save uploaded file")
		return
	}
	dst.Close()

	store.put(db.TaskRecord{TaskID: taskID, Status: statusQueued})
	go processTask(taskID, uploadPath)

	writeJSON(w, http.StatusOK, model.TaskResponse{TaskID: taskID, Status: statusQueued})
}

func processTask(taskID, uploadPath string) {
	fail := func(err error) {
		log.Logger.WithError(err).WithField("task_id", taskID).Error("Task failed")
		store.put(db.TaskRecord{TaskID: taskID, Status: statusFailed, Error: err.Error()})
	}

	store.put(db.TaskRecord{TaskID: taskID, Status: statusProcessing})
	tracks, err := midi.ReadTracksFromFile(uploadPath)
	if err != nil {
		fail(err)
		return
	}

	store.put(db.TaskRecord{TaskID: taskID, Status: statusExtracting})
	res, err := pipeline.Run(tracks, pipeline.DefaultConfig())
	if err != nil {
		fail(err)
		return
	}

	store.put(db.TaskRecord{TaskID: taskID, Status: statusArranging})
	out := filepath.Join(constants.GetOutputDir(), taskID+"_arrangement.mid")
	if err := midi.WriteArrangementFile(out, res.Melody, res.Accompaniment); err != nil {
		fail(err)
		return
	}

	store.put(db.TaskRecord{
		TaskID:             taskID,
		Status:             statusCompleted,
		MelodyNotes:        len(res.Melody),
		AccompanimentNotes: len(res.Accompaniment),
		Duration:           res.Duration,
	})

	log.Logger.WithFields(logrus.Fields{
		"task_id":      taskID,
		"melody_notes": len(res.Melody),
		"duration":     res.Duration,
	}).Info("Task completed")
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]
	rec, ok := store.get(taskID)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	writeJSON(w, http.StatusOK, model.TaskStatusResponse{
		TaskID:             rec.TaskID,
		Status:             rec.Status,
		Error:              rec.Error,
		MelodyNotes:        rec.MelodyNotes,
		AccompanimentNotes: rec.AccompanimentNotes,
		Duration:           rec.Duration,
	})
}

func handleDownload(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]
	rec, ok := store.get(taskID)
	if !ok || rec.Status != statusCompleted {
		writeError(w, http.StatusNotFound, "no completed arrangement for task")
		return
	}

	path := filepath.Join(constants.GetOutputDir(), taskID+"_arrangement.mid")
	w.Header().Set("Content-Type", "audio/midi")
	http.ServeFile(w, r, path)
}

// NewRouter wires the API routes and resets the task store. Exposed so the
// e2e tests can drive the handlers without a listening socket.
func NewRouter() *mux.Router {
	store = newTaskStore()

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/arrange", handleArrange).Methods("POST")
	router.HandleFunc("/api/status/{taskId}", handleStatus).Methods("GET")
	router.HandleFunc("/api/download/{taskId}", handleDownload).Methods("GET")
	return router
}

func serve() {
	util.EnsureOutputDir(constants.GetOutputDir())
	router := NewRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Logger.WithField("port", port).Info("Serving arrangement API")
	handler := cors.Default().Handler(router)
	log.Logger.Fatal(http.ListenAndServe(":"+port, handler))
}
