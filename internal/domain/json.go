package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID accepts either a JSON string or number, since feeds use both.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type storyJSON struct {
	ID       ID     `json:"id"`
	URL      string `json:"url"`
	Duration *int64 `json:"duration"`
}

type userJSON struct {
	ID         ID          `json:"id"`
	Username   string      `json:"username"`
	UserAvatar string      `json:"userAvatar"`
	Stories    []storyJSON `json:"stories"`
}

// DecodeUsers parses the stories feed format.
func DecodeUsers(data []byte) ([]User, error) {
	var raw []userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]User, 0, len(raw))
	for i, ru := range raw {
		u := User{
			ID:        string(ru.ID),
			Username:  ru.Username,
			AvatarURL: ru.UserAvatar,
			Stories:   make([]Story, 0, len(ru.Stories)),
		}
		if u.ID == "" {
			u.ID = strconv.Itoa(i)
		}
		for j, rs := range ru.Stories {
			s := Story{ID: string(rs.ID), URL: rs.URL}
			if s.ID == "" {
				s.ID = u.ID + "-" + strconv.Itoa(j)
			}
			if rs.Duration != nil && *rs.Duration > 0 {
				s.DurationMs = *rs.Duration
			}
			u.Stories = append(u.Stories, s)
		}
		users = append(users, u)
	}
	return users, nil
}
