package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coreybb/learnlanguage/auth"
	"github.com/coreybb/learnlanguage/models"
	rh "github.com/coreybb/learnlanguage/route-handlers"
	"github.com/coreybb/learnlanguage/webutil"
)

const requestTimeout = 60 * time.Second

// Handlers groups the resource handlers mounted by SetupRoutes.
type Handlers struct {
	Token   *rh.TokenHandler
	User    *rh.UserHandler
	Course  *rh.CourseHandler
	Cart    *rh.CartHandler
	Payment *rh.PaymentHandler
}

// Owner sources shared by the guarded routes.
var (
	ownerInPath  = auth.FromURLParam(rh.ParamEmail)
	ownerInQuery = auth.FromQuery(rh.ParamEmail)
	ownerForCart = auth.FirstOf(auth.FromURLParam(rh.ParamEmail), auth.FromJSONField("userEmail"))
)

func SetupRoutes(h Handlers, guard *auth.Guard, metrics *Metrics, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(CORS(allowedOrigins))
	r.Use(metrics.Middleware)

	r.Get("/", handleRoot)
	r.Get("/healthz", handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	configurePublicRoutes(r, h)

	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticate)
		configureUserRoutes(r, h.User, guard)
		configureCourseRoutes(r, h.Course, guard)
		configureCartRoutes(r, h.Cart, guard)
		configurePaymentRoutes(r, h.Payment, guard)
	})

	return r
}

func pathWithParam(basePath string, paramName string) string {
	return basePath + "/{" + paramName + "}"
}

// --- Public Routes ---
func configurePublicRoutes(r chi.Router, h Handlers) {
	r.Get("/courses", webutil.MakeHandler(h.Course.HandleGetCourses))
	r.Get("/topCourses", webutil.MakeHandler(h.Course.HandleGetTopCourses))
	r.Get("/instructors", webutil.MakeHandler(h.User.HandleGetInstructors))
	r.Get("/topInstructors", webutil.MakeHandler(h.User.HandleGetTopInstructors))
	r.Post("/jwt", webutil.MakeHandler(h.Token.HandleIssueToken))
	r.Post("/addUser", webutil.MakeHandler(h.User.HandleAddUser))
}

// --- User Routes ---
func configureUserRoutes(r chi.Router, handler *rh.UserHandler, guard *auth.Guard) {
	r.With(guard.Self(ownerInPath)).
		Get(pathWithParam("/users", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetUser))
	r.With(guard.Role(ownerInPath, models.RoleAdmin)).
		Get(pathWithParam("/allUsers", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetAllUsers))
}

// --- Course Routes ---
func configureCourseRoutes(r chi.Router, handler *rh.CourseHandler, guard *auth.Guard) {
	r.With(guard.Role(ownerInPath, models.RoleAdmin)).
		Get(pathWithParam("/allCourse", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetAllCourses))
	r.With(guard.Role(ownerInPath, models.RoleAdmin)).
		Patch(pathWithParam(pathWithParam("/changeStatus", rh.ParamEmail), rh.ParamID), webutil.MakeHandler(handler.HandleChangeStatus))

	r.With(guard.Role(ownerInPath, models.RoleInstructor)).
		Get(pathWithParam("/instructorCourse", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetInstructorCourses))
	r.With(guard.Role(ownerInPath, models.RoleInstructor)).
		Post(pathWithParam("/addCourse", rh.ParamEmail), webutil.MakeHandler(handler.HandleAddCourse))
	// No owner in the path: the caller must be an instructor and the handler
	// checks that the course is theirs.
	r.With(guard.Role(auth.FromClaims(), models.RoleInstructor)).
		Patch(pathWithParam("/updateCourseInfo", rh.ParamID), webutil.MakeHandler(handler.HandleUpdateCourseInfo))
}

// --- Cart Routes ---
func configureCartRoutes(r chi.Router, handler *rh.CartHandler, guard *auth.Guard) {
	r.With(guard.Self(ownerInPath)).
		Get(pathWithParam("/cartData", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetCart))
	r.With(guard.Self(ownerForCart)).
		Post("/addToCart", webutil.MakeHandler(handler.HandleAddToCart))
	r.With(guard.Self(ownerForCart)).
		Post(pathWithParam("/addToCart", rh.ParamEmail), webutil.MakeHandler(handler.HandleAddToCart))
	r.With(guard.Self(ownerInQuery)).
		Delete("/deleteToCart", webutil.MakeHandler(handler.HandleDeleteFromCart))
}

// --- Payment Routes ---
func configurePaymentRoutes(r chi.Router, handler *rh.PaymentHandler, guard *auth.Guard) {
	r.With(guard.Self(ownerInQuery)).
		Post("/create-payment-intent", webutil.MakeHandler(handler.HandleCreatePaymentIntent))
	r.With(guard.Self(ownerInQuery)).
		Post("/payment", webutil.MakeHandler(handler.HandleRecordPayment))
	r.With(guard.Self(ownerInPath)).
		Get(pathWithParam("/paymentData", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetPayments))
	r.With(guard.Self(ownerInPath)).
		Get(pathWithParam("/accessCourse", rh.ParamEmail), webutil.MakeHandler(handler.HandleGetAccessCourses))
}

// --- Utility Functions ---

func handleRoot(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithText(w, http.StatusOK, "LearnLanguage server running")
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithText(w, http.StatusOK, "OK")
}
