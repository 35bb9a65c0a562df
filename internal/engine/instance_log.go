package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/pkg/api"
)

// maxLogs - сколько последних записей хранит инстанс.
const maxLogs = 200

// AddLog добавляет лог в историю инстанса. Вызывается под локом инстанса.
func (i *Instance) AddLog(text, logType string) api.LogEntry {
	now := time.Now()
	entry := api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", i.ID, now.UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	}
	i.Logs = append(i.Logs, entry)
	if len(i.Logs) > maxLogs {
		i.Logs = i.Logs[len(i.Logs)-maxLogs:]
	}

	fields := logrus.Fields{
		"component": "game_log",
		"log_type":  logType,
	}
	if logType == "ERROR" {
		i.log.WithFields(fields).Warn(text)
	} else {
		i.log.WithFields(fields).Info(text)
	}
	return entry
}
