package mockapi

// BasePath is the prefix every route is served under. Point the transport at
// server URL + BasePath.
const BasePath = "/api"

// Route path constants, as registered on the mux.
const (
	// Auth
	RouteAuthLogin              = BasePath + "/auth/login"
	RouteAuthRegister           = BasePath + "/auth/register"
	RouteAuthRefresh            = BasePath + "/auth/refresh-token"
	RouteAuthLogout             = BasePath + "/auth/logout"
	RouteAuthProfile            = BasePath + "/auth/profile"
	RouteAuthForgotPassword     = BasePath + "/auth/forgot-password"
	RouteAuthResetPassword      = BasePath + "/auth/reset-password"
	RouteAuthVerifyEmail        = BasePath + "/auth/verify-email"
	RouteAuthResendVerification = BasePath + "/auth/resend-verification"

	// Users
	RouteUserRequestUpgrade = BasePath + "/users/me/request-upgrade"
	RouteUserCancelUpgrade  = BasePath + "/users/me/cancel-upgrade"
	RouteUser               = BasePath + "/users/{id}"
	RouteUserMetroAreas     = BasePath + "/users/{id}/preferred-metro-areas"

	// Event queries
	RouteEvents         = BasePath + "/events"
	RouteEventSearch    = BasePath + "/events/search"
	RouteEventNearby    = BasePath + "/events/nearby"
	RouteEventFeatured  = BasePath + "/events/featured"
	RouteEventUpcoming  = BasePath + "/events/upcoming"
	RouteEventMyEvents  = BasePath + "/events/my-events"
	RouteEventMyRsvps   = BasePath + "/events/my-rsvps"
	RouteEvent          = BasePath + "/events/{id}"
	RouteEventICS       = BasePath + "/events/{id}/ics"
	RouteEventShare     = BasePath + "/events/{id}/share"
	RouteEventWaitlist  = BasePath + "/events/{id}/waiting-list"
	RouteEventCheckRegn = BasePath + "/events/{id}/check-registration"

	// Event lifecycle
	RouteEventSubmit    = BasePath + "/events/{id}/submit"
	RouteEventPublish   = BasePath + "/events/{id}/publish"
	RouteEventUnpublish = BasePath + "/events/{id}/unpublish"
	RouteEventCancel    = BasePath + "/events/{id}/cancel"
	RouteEventPostpone  = BasePath + "/events/{id}/postpone"

	// Registration
	RouteEventRsvp           = BasePath + "/events/{id}/rsvp"
	RouteEventAnonymous      = BasePath + "/events/{id}/register-anonymous"
	RouteEventMyRegistration = BasePath + "/events/{id}/my-registration"
	RouteEventTicket         = BasePath + "/events/{id}/my-registration/ticket"
	RouteEventTicketPDF      = BasePath + "/events/{id}/my-registration/ticket/pdf"
	RouteEventTicketResend   = BasePath + "/events/{id}/my-registration/ticket/resend-email"

	// Media
	RouteEventImages       = BasePath + "/events/{id}/images"
	RouteEventImage        = BasePath + "/events/{id}/images/{imageId}"
	RouteEventImageReorder = BasePath + "/events/{id}/images/reorder"
	RouteEventImagePrimary = BasePath + "/events/{id}/images/{imageId}/set-primary"
	RouteEventVideos       = BasePath + "/events/{id}/videos"
	RouteEventVideo        = BasePath + "/events/{id}/videos/{videoId}"

	// Sign-up lists
	RouteEventSignUps          = BasePath + "/events/{id}/signups"
	RouteEventSignUp           = BasePath + "/events/{id}/signups/{signupId}"
	RouteEventSignUpCommit     = BasePath + "/events/{id}/signups/{signupId}/commit"
	RouteEventSignUpItems      = BasePath + "/events/{id}/signups/{signupId}/items"
	RouteEventSignUpItem       = BasePath + "/events/{id}/signups/{signupId}/items/{itemId}"
	RouteEventSignUpItemCommit = BasePath + "/events/{id}/signups/{signupId}/items/{itemId}/commit"
	RouteEventSignUpOpenItems  = BasePath + "/events/{id}/signups/{signupId}/open-items"
	RouteEventSignUpOpenItem   = BasePath + "/events/{id}/signups/{signupId}/open-items/{itemId}"

	// Organizer tools
	RouteEventAttendees       = BasePath + "/events/{id}/attendees"
	RouteEventAttendeesExport = BasePath + "/events/{id}/attendees/export"
	RouteEventNotify          = BasePath + "/events/{id}/send-notification"
	RouteEventNotifications   = BasePath + "/events/{id}/notification-history"
	RouteEventReminder        = BasePath + "/events/{id}/send-reminder"
)
