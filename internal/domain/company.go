package domain

import "time"

// Company is an organizational tenant. Companies are managed outside this
// workflow; here they are only listed and bound to approved users.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
