package service

import (
	"encoding/json"
	"log"

	"bloggers-platform/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailWorker consumes email messages from RabbitMQ and delivers them over SMTP
type EmailWorker struct {
	emailService EmailService
	rabbitMQ     *util.RabbitMQClient
	stopChan     chan bool
}

// NewEmailWorker creates a new email worker
func NewEmailWorker(emailService EmailService, rabbitMQ *util.RabbitMQClient) *EmailWorker {
	return &EmailWorker{
		emailService: emailService,
		rabbitMQ:     rabbitMQ,
		stopChan:     make(chan bool),
	}
}

// Start starts consuming email messages from RabbitMQ
func (w *EmailWorker) Start() error {
	if w.rabbitMQ == nil {
		return nil // RabbitMQ not available, worker will not start
	}

	channel := w.rabbitMQ.GetChannel()
	if channel == nil {
		return nil
	}

	// Declare exchange
	if err := channel.ExchangeDeclare(
		emailExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return err
	}

	// Declare queue
	queue, err := channel.QueueDeclare(
		emailQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	// Bind queue to exchange
	if err := channel.QueueBind(
		emailQueue,
		emailRouteKey,
		emailExchange,
		false,
		nil,
	); err != nil {
		return err
	}

	// Consume messages
	msgs, err := channel.Consume(
		queue.Name,
		"email_worker",
		false, // auto-ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	// Start consuming in a goroutine
	go func() {
		log.Println("Email worker started, consuming messages...")
		for {
			select {
			case <-w.stopChan:
				log.Println("Email worker stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("Email queue closed")
					return
				}
				if err := w.processEmailMessage(msg); err != nil {
					log.Printf("Error processing email message: %v", err)
					// Don't ack on error, let RabbitMQ requeue
					msg.Nack(false, true)
				} else {
					msg.Ack(false)
				}
			}
		}
	}()

	return nil
}

// Stop stops the worker
func (w *EmailWorker) Stop() {
	close(w.stopChan)
}

func (w *EmailWorker) processEmailMessage(msg amqp.Delivery) error {
	var email EmailMessage
	if err := json.Unmarshal(msg.Body, &email); err != nil {
		return err
	}
	return w.emailService.Send(email)
}
