package i18n

// Code identifies a localizable message.
type Code string

const (
	// auth
	CustomerCreated         Code = "CUSTOMER_CREATED"
	AdminCreated            Code = "ADMIN_CREATED"
	DeliveryPartnerCreated  Code = "DELIVERY_PARTNER_CREATED"
	LoginSuccess            Code = "LOGIN_SUCCESS"
	TokenRefreshed          Code = "TOKEN_REFRESHED"
	LogoutSuccess           Code = "LOGOUT_SUCCESS"
	InvalidCredentials      Code = "INVALID_CREDENTIALS"
	UsernameExists          Code = "USERNAME_EXISTS"
	EmailExists             Code = "EMAIL_EXISTS"
	TokenInvalid            Code = "TOKEN_INVALID"
	AccessDenied            Code = "ACCESS_DENIED"
	InactiveUser            Code = "INACTIVE_USER"
	InvalidRegistrationKey  Code = "INVALID_REGISTRATION_KEY"
	ProfileFetched          Code = "PROFILE_FETCHED"
	UsersFetched            Code = "USERS_FETCHED"
	UserFetched             Code = "USER_FETCHED"
	UserUpdated             Code = "USER_UPDATED"
	UserDeleted             Code = "USER_DELETED"
	UserNotFound            Code = "USER_NOT_FOUND"
	OrderCreated            Code = "ORDER_CREATED"
	OrdersFetched           Code = "ORDERS_FETCHED"
	OrderFetched            Code = "ORDER_FETCHED"
	OrderNotFound           Code = "ORDER_NOT_FOUND"
	OrderStatusUpdated      Code = "ORDER_STATUS_UPDATED"
	EmptyOrder              Code = "EMPTY_ORDER"
	NoAvailableItems        Code = "NO_AVAILABLE_ITEMS"
	InvalidStatus           Code = "INVALID_STATUS"
	InvalidTransition       Code = "INVALID_TRANSITION"
	OrderConflict           Code = "ORDER_CONFLICT"
	RestaurantCreated       Code = "RESTAURANT_CREATED"
	RestaurantsFetched      Code = "RESTAURANTS_FETCHED"
	RestaurantFetched       Code = "RESTAURANT_FETCHED"
	RestaurantUpdated       Code = "RESTAURANT_UPDATED"
	RestaurantDeleted       Code = "RESTAURANT_DELETED"
	RestaurantNotFound      Code = "RESTAURANT_NOT_FOUND"
	CategoryCreated         Code = "CATEGORY_CREATED"
	CategoriesFetched       Code = "CATEGORIES_FETCHED"
	CategoryUpdated         Code = "CATEGORY_UPDATED"
	CategoryDeleted         Code = "CATEGORY_DELETED"
	CategoryNotFound        Code = "CATEGORY_NOT_FOUND"
	FoodCreated             Code = "FOOD_CREATED"
	FoodsFetched            Code = "FOODS_FETCHED"
	FoodUpdated             Code = "FOOD_UPDATED"
	FoodDeleted             Code = "FOOD_DELETED"
	FoodNotFound            Code = "FOOD_NOT_FOUND"
	FoodImageUploaded       Code = "FOOD_IMAGE_UPLOADED"
	DashboardFetched        Code = "DASHBOARD_FETCHED"
	NotificationsFetched    Code = "NOTIFICATIONS_FETCHED"
	NotificationsMarkedRead Code = "NOTIFICATIONS_MARKED_READ"
	NotificationMarkedRead  Code = "NOTIFICATION_MARKED_READ"
	NotificationNotFound    Code = "NOTIFICATION_NOT_FOUND"
	InvalidParameters       Code = "INVALID_PARAMETERS"
	RouteNotFound           Code = "ROUTE_NOT_FOUND"
	TooManyRequests         Code = "TOO_MANY_REQUESTS"
	InternalError           Code = "INTERNAL_ERROR"
)

var catalog = map[string]map[Code]string{
	"en": {
		CustomerCreated:         "Customer created successfully",
		AdminCreated:            "Admin created successfully",
		DeliveryPartnerCreated:  "Delivery partner created successfully",
		LoginSuccess:            "Login successful",
		TokenRefreshed:          "Token refreshed successfully",
		LogoutSuccess:           "Logged out successfully",
		InvalidCredentials:      "Invalid credentials",
		UsernameExists:          "Username already exists",
		EmailExists:             "Email already exists",
		TokenInvalid:            "Invalid or expired token",
		AccessDenied:            "Access denied",
		InactiveUser:            "Inactive user",
		InvalidRegistrationKey:  "Invalid registration key",
		ProfileFetched:          "Profile fetched successfully",
		UsersFetched:            "Users fetched successfully",
		UserFetched:             "User fetched successfully",
		UserUpdated:             "User updated successfully",
		UserDeleted:             "User deleted successfully",
		UserNotFound:            "User not found",
		OrderCreated:            "Order created successfully",
		OrdersFetched:           "Orders fetched successfully",
		OrderFetched:            "Order fetched successfully",
		OrderNotFound:           "Order not found",
		OrderStatusUpdated:      "Order status updated successfully",
		EmptyOrder:              "Order must contain at least one item",
		NoAvailableItems:        "None of the requested items are available",
		InvalidStatus:           "Invalid order status",
		InvalidTransition:       "Order cannot move to the requested status",
		OrderConflict:           "Order was modified concurrently, please retry",
		RestaurantCreated:       "Restaurant created successfully",
		RestaurantsFetched:      "Restaurants fetched successfully",
		RestaurantFetched:       "Restaurant fetched successfully",
		RestaurantUpdated:       "Restaurant updated successfully",
		RestaurantDeleted:       "Restaurant deleted successfully",
		RestaurantNotFound:      "Restaurant not found",
		CategoryCreated:         "Category created successfully",
		CategoriesFetched:       "Categories fetched successfully",
		CategoryUpdated:         "Category updated successfully",
		CategoryDeleted:         "Category deleted successfully",
		CategoryNotFound:        "Category not found",
		FoodCreated:             "Food created successfully",
		FoodsFetched:            "Foods fetched successfully",
		FoodUpdated:             "Food updated successfully",
		FoodDeleted:             "Food deleted successfully",
		FoodNotFound:            "Food not found",
		FoodImageUploaded:       "Food image uploaded successfully",
		DashboardFetched:        "Dashboard stats fetched successfully",
		NotificationsFetched:    "Notifications fetched successfully",
		NotificationsMarkedRead: "All notifications marked as read",
		NotificationMarkedRead:  "Notification marked as read",
		NotificationNotFound:    "Notification not found",
		InvalidParameters:       "Invalid parameters",
		RouteNotFound:           "Route not found",
		TooManyRequests:         "Too many requests",
		InternalError:           "Internal server error",
	},
	"ar": {
		CustomerCreated:         "تم إنشاء العميل بنجاح",
		AdminCreated:            "تم إنشاء المسؤول بنجاح",
		DeliveryPartnerCreated:  "تم إنشاء شريك التوصيل بنجاح",
		LoginSuccess:            "تم تسجيل الدخول بنجاح",
		TokenRefreshed:          "تم تحديث الرمز بنجاح",
		LogoutSuccess:           "تم تسجيل الخروج بنجاح",
		InvalidCredentials:      "بيانات اعتماد غير صالحة",
		UsernameExists:          "اسم المستخدم موجود بالفعل",
		EmailExists:             "البريد الإلكتروني موجود بالفعل",
		TokenInvalid:            "رمز غير صالح أو منتهي الصلاحية",
		AccessDenied:            "تم رفض الوصول",
		InactiveUser:            "المستخدم غير نشط",
		InvalidRegistrationKey:  "مفتاح التسجيل غير صالح",
		ProfileFetched:          "تم جلب الملف الشخصي بنجاح",
		UsersFetched:            "تم جلب المستخدمين بنجاح",
		UserFetched:             "تم جلب المستخدم بنجاح",
		UserUpdated:             "تم تحديث المستخدم بنجاح",
		UserDeleted:             "تم حذف المستخدم بنجاح",
		UserNotFound:            "المستخدم غير موجود",
		OrderCreated:            "تم إنشاء الطلب بنجاح",
		OrdersFetched:           "تم جلب الطلبات بنجاح",
		OrderFetched:            "تم جلب الطلب بنجاح",
		OrderNotFound:           "الطلب غير موجود",
		OrderStatusUpdated:      "تم تحديث حالة الطلب بنجاح",
		EmptyOrder:              "يجب أن يحتوي الطلب على عنصر واحد على الأقل",
		NoAvailableItems:        "لا يتوفر أي من العناصر المطلوبة",
		InvalidStatus:           "حالة الطلب غير صالحة",
		InvalidTransition:       "لا يمكن نقل الطلب إلى الحالة المطلوبة",
		OrderConflict:           "تم تعديل الطلب في نفس الوقت، يرجى المحاولة مرة أخرى",
		RestaurantCreated:       "تم إنشاء المطعم بنجاح",
		RestaurantsFetched:      "تم جلب المطاعم بنجاح",
		RestaurantFetched:       "تم جلب المطعم بنجاح",
		RestaurantUpdated:       "تم تحديث المطعم بنجاح",
		RestaurantDeleted:       "تم حذف المطعم بنجاح",
		RestaurantNotFound:      "المطعم غير موجود",
		CategoryCreated:         "تم إنشاء الفئة بنجاح",
		CategoriesFetched:       "تم جلب الفئات بنجاح",
		CategoryUpdated:         "تم تحديث الفئة بنجاح",
		CategoryDeleted:         "تم حذف الفئة بنجاح",
		CategoryNotFound:        "الفئة غير موجودة",
		FoodCreated:             "تم إنشاء الطعام بنجاح",
		FoodsFetched:            "تم جلب الأطعمة بنجاح",
		FoodUpdated:             "تم تحديث الطعام بنجاح",
		FoodDeleted:             "تم حذف الطعام بنجاح",
		FoodNotFound:            "الطعام غير موجود",
		FoodImageUploaded:       "تم رفع صورة الطعام بنجاح",
		DashboardFetched:        "تم جلب إحصائيات لوحة التحكم بنجاح",
		NotificationsFetched:    "تم جلب الإشعارات بنجاح",
		NotificationsMarkedRead: "تم وضع علامة مقروء على جميع الإشعارات",
		NotificationMarkedRead:  "تم وضع علامة مقروء على الإشعار",
		NotificationNotFound:    "الإشعار غير موجود",
		InvalidParameters:       "معلمات غير صالحة",
		RouteNotFound:           "المسار غير موجود",
		TooManyRequests:         "طلبات كثيرة جدًا",
		InternalError:           "خطأ داخلي في الخادم",
	},
	"hi": {
		CustomerCreated:         "ग्राहक सफलतापूर्वक बनाया गया",
		AdminCreated:            "एडमिन सफलतापूर्वक बनाया गया",
		DeliveryPartnerCreated:  "डिलीवरी पार्टनर सफलतापूर्वक बनाया गया",
		LoginSuccess:            "लॉगिन सफल हुआ",
		TokenRefreshed:          "टोकन सफलतापूर्वक रीफ़्रेश किया गया",
		LogoutSuccess:           "सफलतापूर्वक लॉगआउट किया गया",
		InvalidCredentials:      "अमान्य क्रेडेंशियल",
		UsernameExists:          "उपयोगकर्ता नाम पहले से मौजूद है",
		EmailExists:             "ईमेल पहले से मौजूद है",
		TokenInvalid:            "अमान्य या समाप्त टोकन",
		AccessDenied:            "पहुंच अस्वीकृत",
		InactiveUser:            "निष्क्रिय उपयोगकर्ता",
		InvalidRegistrationKey:  "अमान्य पंजीकरण कुंजी",
		ProfileFetched:          "प्रोफ़ाइल सफलतापूर्वक प्राप्त की गई",
		UsersFetched:            "उपयोगकर्ताओं को सफलतापूर्वक प्राप्त किया गया",
		UserFetched:             "उपयोगकर्ता सफलतापूर्वक प्राप्त किया गया",
		UserUpdated:             "उपयोगकर्ता सफलतापूर्वक अपडेट किया गया",
		UserDeleted:             "उपयोगकर्ता सफलतापूर्वक हटा दिया गया",
		UserNotFound:            "उपयोगकर्ता नहीं मिला",
		OrderCreated:            "ऑर्डर सफलतापूर्वक बनाया गया",
		OrdersFetched:           "ऑर्डर सफलतापूर्वक प्राप्त किए गए",
		OrderFetched:            "ऑर्डर सफलतापूर्वक प्राप्त किया गया",
		OrderNotFound:           "ऑर्डर नहीं मिला",
		OrderStatusUpdated:      "ऑर्डर की स्थिति सफलतापूर्वक अपडेट की गई",
		EmptyOrder:              "ऑर्डर में कम से कम एक आइटम होना चाहिए",
		NoAvailableItems:        "अनुरोधित आइटम में से कोई भी उपलब्ध नहीं है",
		InvalidStatus:           "अमान्य ऑर्डर स्थिति",
		InvalidTransition:       "ऑर्डर को अनुरोधित स्थिति में नहीं ले जाया जा सकता",
		OrderConflict:           "ऑर्डर एक साथ बदला गया, कृपया पुनः प्रयास करें",
		RestaurantCreated:       "रेस्टोरेंट सफलतापूर्वक बनाया गया",
		RestaurantsFetched:      "रेस्टोरेंट सफलतापूर्वक प्राप्त किए गए",
		RestaurantFetched:       "रेस्टोरेंट सफलतापूर्वक प्राप्त किया गया",
		RestaurantUpdated:       "रेस्टोरेंट सफलतापूर्वक अपडेट किया गया",
		RestaurantDeleted:       "रेस्टोरेंट सफलतापूर्वक हटा दिया गया",
		RestaurantNotFound:      "रेस्टोरेंट नहीं मिला",
		CategoryCreated:         "श्रेणी सफलतापूर्वक बनाई गई",
		CategoriesFetched:       "श्रेणियां सफलतापूर्वक प्राप्त की गईं",
		CategoryUpdated:         "श्रेणी सफलतापूर्वक अपडेट की गई",
		CategoryDeleted:         "श्रेणी सफलतापूर्वक हटा दी गई",
		CategoryNotFound:        "श्रेणी नहीं मिली",
		FoodCreated:             "भोजन सफलतापूर्वक बनाया गया",
		FoodsFetched:            "भोजन सफलतापूर्वक प्राप्त किए गए",
		FoodUpdated:             "भोजन सफलतापूर्वक अपडेट किया गया",
		FoodDeleted:             "भोजन सफलतापूर्वक हटा दिया गया",
		FoodNotFound:            "भोजन नहीं मिला",
		FoodImageUploaded:       "भोजन की छवि सफलतापूर्वक अपलोड की गई",
		DashboardFetched:        "डैशबोर्ड आंकड़े सफलतापूर्वक प्राप्त किए गए",
		NotificationsFetched:    "सूचनाएं सफलतापूर्वक प्राप्त की गईं",
		NotificationsMarkedRead: "सभी सूचनाएं पढ़ी गई के रूप में चिह्नित",
		NotificationMarkedRead:  "सूचना पढ़ी गई के रूप में चिह्नित",
		NotificationNotFound:    "सूचना नहीं मिली",
		InvalidParameters:       "अमान्य पैरामीटर",
		RouteNotFound:           "रूट नहीं मिला",
		TooManyRequests:         "बहुत अधिक अनुरोध",
		InternalError:           "आंतरिक सर्वर त्रुटि",
	},
}
