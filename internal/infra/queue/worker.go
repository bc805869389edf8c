package queue

import (
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadNotificationSender define o contrato do canal de aviso ao time
// comercial (hoje email SMTP).
type LeadNotificationSender interface {
	SendLeadNotification(payload LeadCapturedPayload) error
}

// Worker consome os eventos de lead capturado e dispara a notificação.
// A notificação é melhor-esforço: o cadastro já foi confirmado antes do
// evento entrar na fila.
type Worker struct {
	Channel *amqp.Channel
	Sender  LeadNotificationSender
}

func NewWorker(ch *amqp.Channel, sender LeadNotificationSender) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		slog.Error("falha ao registrar consumidor RabbitMQ", "error", err)
		return
	}

	slog.Info("worker de notificação aguardando mensagens", "queue", queueName)

	for d := range msgs {
		var payload LeadCapturedPayload
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			slog.Warn("mensagem malformada na fila, rejeitando sem requeue", "error", err)
			d.Nack(false, false)
			continue
		}

		if err := w.process(payload); err != nil {
			slog.Warn("erro ao notificar lead capturado", "lead_id", payload.LeadID, "error", err)
			// Consistente com a DLQ declarada na topologia: Nack sem
			// requeue encaminha para q.lead-notifications.dlq.
			d.Nack(false, false)
			continue
		}

		slog.Info("notificação de lead enviada", "lead_id", payload.LeadID, "email", payload.Email)
		d.Ack(false)
	}
}

func (w *Worker) process(payload LeadCapturedPayload) error {
	if w.Sender == nil {
		// Sem SMTP configurado apenas registra; a mensagem sai da fila.
		slog.Info("lead capturado (sem canal de notificação configurado)",
			"lead_id", payload.LeadID, "nome", payload.Nome)
		return nil
	}
	return w.Sender.SendLeadNotification(payload)
}
