package customer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"homely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Provider resolves the ambient customer context the booking flow depends
// on: session identity and saved addresses. It is injected into the
// orchestrator at construction with an explicit ready/not-ready state, so
// the address step never has to poll storage waiting for a session.
type Provider interface {
	Ready() bool
	Current(ctx context.Context, customerID string) (*models.CustomerContext, error)
	DefaultAddress(ctx context.Context, customerID string) (*models.SavedAddress, error)
	ListAddresses(ctx context.Context, customerID string) ([]models.SavedAddress, error)
}

// MongoProvider reads customers and saved addresses from Mongo.
type MongoProvider struct {
	Customers *mongo.Collection
	Addresses *mongo.Collection
	ready     atomic.Bool
}

func NewMongoProvider(customers, addresses *mongo.Collection) *MongoProvider {
	return &MongoProvider{Customers: customers, Addresses: addresses}
}

// MarkReady flips the provider into the ready state once the backing
// session/auth infrastructure is usable.
func (p *MongoProvider) MarkReady() {
	p.ready.Store(true)
}

// Ready reports whether customer identities are currently resolvable.
func (p *MongoProvider) Ready() bool {
	return p.ready.Load()
}

// Current resolves the customer behind the session.
func (p *MongoProvider) Current(ctx context.Context, customerID string) (*models.CustomerContext, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cust models.CustomerContext
	err := p.Customers.FindOne(ctx, bson.M{"id": customerID}).Decode(&cust)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("customer %s not found", customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	return &cust, nil
}

// DefaultAddress returns the customer's default saved address, or nil when
// none is marked default.
func (p *MongoProvider) DefaultAddress(ctx context.Context, customerID string) (*models.SavedAddress, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var addr models.SavedAddress
	err := p.Addresses.FindOne(ctx, bson.M{"customerId": customerID, "isDefault": true}).Decode(&addr)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch default address: %w", err)
	}
	return &addr, nil
}

// ListAddresses returns all saved addresses for the location step.
func (p *MongoProvider) ListAddresses(ctx context.Context, customerID string) ([]models.SavedAddress, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := p.Addresses.Find(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addrs []models.SavedAddress
	if err := cursor.All(ctx, &addrs); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addrs, nil
}
