package mockapi

import (
	"github.com/jrsteele09/lankaconnect-client/events"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.LoginHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRegister, s.RegisterHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, s.RefreshHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogout, s.LogoutHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteAuthProfile, s.ProfileHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteAuthForgotPassword, s.ForgotPasswordHandler())
	s.RegisterRouteFunc("POST "+RouteAuthResetPassword, s.ResetPasswordHandler())
	s.RegisterRouteFunc("POST "+RouteAuthVerifyEmail, s.VerifyEmailHandler())
	s.RegisterRouteFunc("POST "+RouteAuthResendVerification, s.ResendVerificationHandler())

	// USERS
	s.RegisterRouteFunc("POST "+RouteUserRequestUpgrade, s.RequestUpgradeHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteUserCancelUpgrade, s.CancelUpgradeHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteUser, s.GetUserHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteUserMetroAreas, s.GetPreferredMetrosHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteUserMetroAreas, s.UpdatePreferredMetrosHandler(), s.RequireAuth)

	// EVENT QUERIES
	s.RegisterRouteFunc("GET "+RouteEvents, s.ListEventsHandler())
	s.RegisterRouteFunc("GET "+RouteEventSearch, s.SearchEventsHandler())
	s.RegisterRouteFunc("GET "+RouteEventNearby, s.NearbyEventsHandler())
	s.RegisterRouteFunc("GET "+RouteEventFeatured, s.FeaturedEventsHandler())
	s.RegisterRouteFunc("GET "+RouteEventUpcoming, s.UpcomingEventsHandler())
	s.RegisterRouteFunc("GET "+RouteEventMyEvents, s.MyEventsHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteEventMyRsvps, s.MyRsvpsHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteEvent, s.GetEventHandler())
	s.RegisterRouteFunc("GET "+RouteEventICS, s.ICSHandler())
	s.RegisterRouteFunc("POST "+RouteEventShare, s.ShareHandler())

	// EVENT LIFECYCLE
	s.RegisterRouteFunc("POST "+RouteEvents, s.CreateEventHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEvent, s.UpdateEventHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEvent, s.DeleteEventHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventSubmit, s.transitionHandler(events.StatusUnderReview, false, events.StatusDraft), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventPublish, s.transitionHandler(events.StatusPublished, false, events.StatusDraft, events.StatusUnderReview, events.StatusPostponed), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventUnpublish, s.transitionHandler(events.StatusDraft, false, events.StatusPublished), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventCancel, s.transitionHandler(events.StatusCancelled, true, events.StatusDraft, events.StatusPublished, events.StatusActive, events.StatusPostponed, events.StatusUnderReview), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventPostpone, s.transitionHandler(events.StatusPostponed, true, events.StatusPublished, events.StatusActive), s.RequireAuth)

	// REGISTRATION
	s.RegisterRouteFunc("POST "+RouteEventRsvp, s.RsvpHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventRsvp, s.CancelRsvpHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventRsvp, s.UpdateRsvpHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteEventMyRegistration, s.MyRegistrationHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventMyRegistration, s.UpdateRegistrationHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventAnonymous, s.AnonymousRegistrationHandler())
	s.RegisterRouteFunc("POST "+RouteEventCheckRegn, s.CheckRegistrationHandler())
	s.RegisterRouteFunc("GET "+RouteEventTicket, s.TicketHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteEventTicketPDF, s.TicketPDFHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventTicketResend, s.ResendTicketHandler(), s.RequireAuth)

	// WAITING LIST
	s.RegisterRouteFunc("GET "+RouteEventWaitlist, s.WaitingListHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventWaitlist, s.JoinWaitingListHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventWaitlist, s.LeaveWaitingListHandler(), s.RequireAuth)

	// MEDIA
	s.RegisterRouteFunc("POST "+RouteEventImages, s.UploadImageHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventImageReorder, s.ReorderImagesHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventImage, s.ReplaceImageHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventImage, s.DeleteImageHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventImagePrimary, s.SetPrimaryImageHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventVideos, s.UploadVideoHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventVideo, s.DeleteVideoHandler(), s.RequireAuth)

	// SIGN-UP LISTS
	s.RegisterRouteFunc("GET "+RouteEventSignUps, s.ListSignUpsHandler())
	s.RegisterRouteFunc("POST "+RouteEventSignUps, s.CreateSignUpListHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventSignUp, s.UpdateSignUpListHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventSignUp, s.RemoveSignUpListHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventSignUpCommit, s.CommitToSignUpHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventSignUpCommit, s.CancelCommitmentHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventSignUpItems, s.AddSignUpItemHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventSignUpItem, s.UpdateSignUpItemHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventSignUpItem, s.RemoveSignUpItemHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventSignUpItemCommit, s.CommitToSignUpItemHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventSignUpOpenItems, s.AddOpenItemHandler(), s.RequireAuth)
	s.RegisterRouteFunc("PUT "+RouteEventSignUpOpenItem, s.UpdateOpenItemHandler(), s.RequireAuth)
	s.RegisterRouteFunc("DELETE "+RouteEventSignUpOpenItem, s.CancelOpenItemHandler(), s.RequireAuth)

	// ORGANIZER TOOLS
	s.RegisterRouteFunc("GET "+RouteEventAttendees, s.AttendeesHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteEventAttendeesExport, s.ExportAttendeesHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventNotify, s.SendNotificationHandler(), s.RequireAuth)
	s.RegisterRouteFunc("GET "+RouteEventNotifications, s.NotificationHistoryHandler(), s.RequireAuth)
	s.RegisterRouteFunc("POST "+RouteEventReminder, s.SendReminderHandler(), s.RequireAuth)
}
