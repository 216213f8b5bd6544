package cache

import "time"

const DefaultMatchTTL = 60 * time.Second

func SeekerMatchesKey(seekerID string) string { return "matches:seeker:" + seekerID }

func JobMatchesKey(jobID string) string { return "matches:job:" + jobID }

func SkillsKey(filter string) string { return "skills:" + filter }

func ConversationChannel(conversationID string) string {
	return "conversation:" + conversationID + ":messages"
}
