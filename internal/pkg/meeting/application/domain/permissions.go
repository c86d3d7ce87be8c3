package meeting

// Capabilities is the set of privileged operations a role may perform.
type Capabilities struct {
	CanLockMeeting       bool
	CanAdmitWaitingRoom  bool
	CanMuteOthers        bool
	CanRemoveParticipant bool
	CanScreenShare       bool
	CanSendChat          bool
	CanDeleteAnyMessage  bool
	CanDeleteOwnMessage  bool
	CanRegenerateInvite  bool
	CanManageWhitelist   bool
}

// CapabilitiesFor maps role and meeting settings to the capability set.
// It is pure and deterministic: no I/O, no clock, no ambient state.
//
// Hosts hold every capability unconditionally. Participants can send chat
// and delete their own messages; screen share is granted only when the
// meeting explicitly enables it, an absent toggle reads as false.
func CapabilitiesFor(role Role, settings Settings) Capabilities {
	if role == RoleHost {
		return Capabilities{
			CanLockMeeting:       true,
			CanAdmitWaitingRoom:  true,
			CanMuteOthers:        true,
			CanRemoveParticipant: true,
			CanScreenShare:       true,
			CanSendChat:          true,
			CanDeleteAnyMessage:  true,
			CanDeleteOwnMessage:  true,
			CanRegenerateInvite:  true,
			CanManageWhitelist:   true,
		}
	}
	return Capabilities{
		CanScreenShare:      settings[SettingScreenShareEnabled],
		CanSendChat:         true,
		CanDeleteOwnMessage: true,
	}
}
