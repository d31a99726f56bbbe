package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomJSONFormatter struct {
	TimestampFormat string
	PrettyPrint     bool
	AppName         string
	Version         string
}

func (f *CustomJSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Data)+6)

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = time.RFC3339
	}
	data["timestamp"] = entry.Time.Format(timestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if f.AppName != "" {
		data["app"] = f.AppName
	}
	if f.Version != "" {
		data["version"] = f.Version
	}

	if entry.HasCaller() {
		data["caller"] = fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		data["function"] = entry.Caller.Function
	}

	for k, v := range entry.Data {
		data[k] = v
	}

	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	encoder := json.NewEncoder(b)
	if f.PrettyPrint {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal fields to JSON: %w", err)
	}

	return b.Bytes(), nil
}

// AuditLogger records admin decisions that move money or entitlements.
type AuditLogger struct {
	logger *Logger
}

func NewAuditLogger(base *Logger) *AuditLogger {
	return &AuditLogger{
		logger: base.WithField("type", "audit"),
	}
}

func (a *AuditLogger) LogAction(action, resource string, actorID primitive.ObjectID, resourceID primitive.ObjectID, details map[string]interface{}) {
	fields := map[string]interface{}{
		"action":      action,
		"resource":    resource,
		"actor_id":    actorID.Hex(),
		"resource_id": resourceID.Hex(),
		"timestamp":   time.Now().UTC(),
	}

	for k, v := range details {
		fields[k] = v
	}

	a.logger.WithFields(fields).Info("Audit log entry")
}

func (a *AuditLogger) LogPaymentAudit(paymentID string, amount float64, currency string, method string, status string) {
	a.logger.WithFields(map[string]interface{}{
		"payment_id": paymentID,
		"amount":     amount,
		"currency":   currency,
		"method":     method,
		"status":     status,
	}).Info("Payment audit logged")
}
