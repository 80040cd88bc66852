// Package notify renders and delivers account emails: activation links,
// password reset links and email change confirmations.
//
// Delivery is asynchronous. The AsyncDispatcher renders a message when it
// is sent and queues it for a small pool of workers, which hand it to a
// Sender (SMTP relay or the log). A failed delivery is logged and never
// reported back to the operation that triggered it.
package notify
