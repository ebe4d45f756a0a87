package layout

// Target описывает ABI-платформу: имя триплета и свойства указателя.
// Все поддерживаемые триплеты сейчас LP64, но генератор не имеет права
// это предполагать и спрашивает размеры здесь.
type Target struct {
	Triple   string
	PtrSize  int
	PtrAlign int
}

// Arm64AppleDarwin is the default client target.
func Arm64AppleDarwin() Target {
	return Target{Triple: "arm64-apple-darwin", PtrSize: 8, PtrAlign: 8}
}

func X86_64AppleDarwin() Target {
	return Target{Triple: "x86_64-apple-darwin", PtrSize: 8, PtrAlign: 8}
}

func X86_64LinuxGNU() Target {
	return Target{Triple: "x86_64-linux-gnu", PtrSize: 8, PtrAlign: 8}
}

// ByTriple resolves a configured triple string. The empty string picks
// the default target.
func ByTriple(triple string) (Target, bool) {
	switch triple {
	case "", "arm64-apple-darwin":
		return Arm64AppleDarwin(), true
	case "x86_64-apple-darwin":
		return X86_64AppleDarwin(), true
	case "x86_64-linux-gnu":
		return X86_64LinuxGNU(), true
	default:
		return Target{}, false
	}
}
