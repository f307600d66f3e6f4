package service

// Canned Spanish replies. The conversation is Spanish end to end, so failure
// states surface as chat messages in the same voice, not as HTTP errors.
const (
	// welcomeMessage opens every new session.
	welcomeMessage = "Hola, soy tu asistente experto en riego. ¿Qué necesitas cotizar hoy? Puedes pedirme productos específicos o describirme tu proyecto (ej: \"riego por goteo para un invernadero\")."

	// noAnswerMessage substitutes for an empty model reply.
	noAnswerMessage = "No he recibido una respuesta clara. ¿Podrías reformular tu solicitud?"

	// quotaMessage is shown when the model API reports quota exhaustion.
	quotaMessage = "⚠️ **Límite de cuota excedido.** He alcanzado el límite de solicitudes de la API por ahora. Por favor, espera un momento antes de enviar otro mensaje."

	// failureMessage covers any other model transport failure.
	failureMessage = "Lo siento, he tenido un problema al procesar tu mensaje. Por favor, inténtalo de nuevo."
)
