package theater

import (
	"context"
	"fmt"
	"html"

	"github.com/theaterparty/server/internal/domain"
)

func newChatMessage(senderID string, identity domain.ChatUserInfo, bodyHTML string) domain.ChatMessage {
	return domain.ChatMessage{
		BodyHTML:        bodyHTML,
		SenderID:        senderID,
		SenderName:      identity.Name,
		SenderAvatarURL: identity.AvatarURL,
	}
}

// WroteMessage fans a chat line out to the audience. Messages from
// anonymous members are dropped; the body is HTML-escaped before it is
// stored or sent anywhere.
func (t *Theater) WroteMessage(ctx context.Context, memberID string, text string) ([]Outbound, error) {
	t.mu.Lock()
	member, ok := t.members[memberID]
	if !ok {
		t.mu.Unlock()
		return nil, ErrMemberNotFound
	}
	if member.identity == nil {
		t.mu.Unlock()
		t.logger.DebugContext(ctx, "dropping chat message from anonymous member", "member_id", memberID)
		return nil, nil
	}
	identity := *member.identity
	t.mu.Unlock()

	message := newChatMessage(memberID, identity, html.EscapeString(text))
	if err := t.messageStore.AddMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return []Outbound{broadcast(MsgChatMessage, message)}, nil
}
