package mq

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/orderdesk/apiserver/config"
	"google.golang.org/api/option"
)

// ChannelAttribute carries the channel of a Pub/Sub message.
const ChannelAttribute = "channel"

// PubSubClient publishes every channel to one topic and tags each message
// with its channel. Subscriptions accept the same patterns as RabbitMQ
// bindings ("*" matches one word, "#" zero or more) and are narrowed with
// a server-side filter on the literal prefix of the pattern.
type PubSubClient struct {
	client             *pubsub.Client
	topicID            string
	subscriptionSuffix string

	mu    sync.Mutex
	topic *pubsub.Topic
}

// NewPubSubClient constructs a Pub/Sub client from config.
func NewPubSubClient(ctx context.Context, cfg config.PubSubConfig) (*PubSubClient, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("pubsub topic is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	return &PubSubClient{
		client:             client,
		topicID:            cfg.Topic,
		subscriptionSuffix: cfg.SubscriptionSuffix,
	}, nil
}

// Publish sends a message on channel. Wildcards are not allowed.
func (p *PubSubClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("pubsub channel is required")
	}
	if isPattern(channel) {
		return "", fmt.Errorf("pubsub: cannot publish to pattern %q", channel)
	}

	topic, err := p.eventsTopic(ctx)
	if err != nil {
		return "", err
	}

	tagged := make(map[string]string, len(attrs)+1)
	for key, value := range attrs {
		tagged[key] = value
	}
	tagged[ChannelAttribute] = channel

	result := topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: tagged})
	return result.Get(ctx)
}

// Subscribe consumes messages whose channel matches pattern. The
// subscription is created on first use and reused afterwards.
func (p *PubSubClient) Subscribe(ctx context.Context, pattern string, handler Handler) error {
	if strings.TrimSpace(pattern) == "" {
		return errors.New("pubsub channel is required")
	}

	topic, err := p.eventsTopic(ctx)
	if err != nil {
		return err
	}

	name := subscriptionID(p.topicID, pattern, p.subscriptionSuffix)
	sub, err := p.ensureSubscription(ctx, name, pubsub.SubscriptionConfig{
		Topic:  topic,
		Filter: subscriptionFilter(pattern),
	})
	if err != nil {
		return fmt.Errorf("subscription %s: %w", name, err)
	}

	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if !matchChannel(pattern, msg.Attributes[ChannelAttribute]) {
			msg.Ack()
			return
		}
		message := Message{
			ID:         msg.ID,
			Data:       msg.Data,
			Attributes: msg.Attributes,
		}
		if err := handler(ctx, message); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close flushes pending publishes and closes the client.
func (p *PubSubClient) Close() error {
	p.mu.Lock()
	if p.topic != nil {
		p.topic.Stop()
	}
	p.mu.Unlock()
	return p.client.Close()
}

func (p *PubSubClient) eventsTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.client.Topic(p.topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", p.topicID, err)
	}
	if !exists {
		if topic, err = p.client.CreateTopic(ctx, p.topicID); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", p.topicID, err)
		}
	}
	p.topic = topic
	return topic, nil
}

func (p *PubSubClient) ensureSubscription(ctx context.Context, name string, cfg pubsub.SubscriptionConfig) (*pubsub.Subscription, error) {
	sub := p.client.Subscription(name)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.client.CreateSubscription(ctx, name, cfg)
	}
	return sub, nil
}

func isPattern(channel string) bool {
	return strings.ContainsAny(channel, "*#")
}

// subscriptionFilter returns the Pub/Sub filter for pattern: equality for a
// plain channel, a prefix match up to the first wildcard otherwise, and no
// filter when the pattern starts with one.
func subscriptionFilter(pattern string) string {
	if !isPattern(pattern) {
		return fmt.Sprintf("attributes.%s = %s", ChannelAttribute, strconv.Quote(pattern))
	}

	var literal []string
	for _, word := range strings.Split(pattern, ".") {
		if word == "*" || word == "#" {
			break
		}
		literal = append(literal, word)
	}
	if len(literal) == 0 {
		return ""
	}
	return fmt.Sprintf("hasPrefix(attributes.%s, %s)", ChannelAttribute, strconv.Quote(strings.Join(literal, ".")))
}

// subscriptionID names the subscription for pattern. Wildcards are spelled
// out since subscription IDs cannot contain them.
func subscriptionID(topic, pattern, suffix string) string {
	slug := strings.NewReplacer("*", "star", "#", "hash").Replace(pattern)
	return topic + "." + slug + suffix
}

// matchChannel reports whether channel matches pattern under topic
// exchange rules.
func matchChannel(pattern, channel string) bool {
	if channel == "" {
		return false
	}
	return matchWords(strings.Split(pattern, "."), strings.Split(channel, "."))
}

func matchWords(pattern, words []string) bool {
	if len(pattern) == 0 {
		return len(words) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(words); i++ {
			if matchWords(pattern[1:], words[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(words) > 0 && matchWords(pattern[1:], words[1:])
	default:
		return len(words) > 0 && pattern[0] == words[0] && matchWords(pattern[1:], words[1:])
	}
}
