package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"scene-server/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/zones", h.handleListZones)
	mux.HandleFunc("/debug/actors", h.handleDumpActors)
	mux.HandleFunc("/debug/scenes", h.handleScenes)
	mux.HandleFunc("/debug/logs", h.handleLogs)
}

// /debug/zones - список зон и количество акторов в них
func (h *DebugHandler) handleListZones(w http.ResponseWriter, r *http.Request) {
	type ZoneSummary struct {
		Zone        int           `json:"zone"`
		ActorCount  int           `json:"actor_count"`
		SceneCount  int           `json:"scene_count"`
		WorldTime   time.Duration `json:"world_time"`
		Subscribers int           `json:"subscribers"`
	}

	summary := make([]ZoneSummary, 0, len(h.Service.Instances))
	for id, inst := range h.Service.Instances {
		summary = append(summary, ZoneSummary{
			Zone:        id,
			ActorCount:  len(inst.Actors()),
			SceneCount:  len(inst.Scenes()),
			WorldTime:   inst.Now(),
			Subscribers: h.Service.Hub.SubscriberCount(),
		})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Zone < summary[j].Zone })

	writeJSON(w, summary)
}

// /debug/actors?zone=130 - дамп всех акторов зоны (ауры, приказы, таймеры деспавна)
func (h *DebugHandler) handleDumpActors(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	writeJSON(w, inst.Actors())
}

// /debug/scenes?zone=130 - состояние сценариев: слоты, суммоны, ожидающие биты
func (h *DebugHandler) handleScenes(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	writeJSON(w, inst.Scenes())
}

// /debug/logs?zone=130 - последние ответы на команды
func (h *DebugHandler) handleLogs(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	writeJSON(w, inst.RecentLogs())
}

// instance берет зону из query. Без параметра - зона по умолчанию.
func (h *DebugHandler) instance(w http.ResponseWriter, r *http.Request) (*engine.Instance, bool) {
	zoneStr := r.URL.Query().Get("zone")
	if zoneStr == "" {
		if inst := h.Service.Default(); inst != nil {
			return inst, true
		}
		http.Error(w, "Instance not found", http.StatusNotFound)
		return nil, false
	}

	zone, err := strconv.Atoi(zoneStr)
	if err != nil {
		http.Error(w, "Invalid zone", http.StatusBadRequest)
		return nil, false
	}
	inst, ok := h.Service.Instance(zone)
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return nil, false
	}
	return inst, true
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, сцен нет), возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
