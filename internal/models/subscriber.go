package models

import "time"

// Subscriber receives homework notifications unless opted out per homework.
type Subscriber struct {
	ID                    string     `db:"id" json:"id"`
	Email                 string     `db:"email" json:"email"`
	UnsubscribedHomeworks StringList `db:"unsubscribed_homeworks" json:"unsubscribedHomeworks"`
	CreatedAt             time.Time  `db:"created_at" json:"createdAt"`
}

// EmailAddress is an entry of the free-standing emails collection.
type EmailAddress struct {
	ID        string    `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
